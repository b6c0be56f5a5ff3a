package entity

import "time"

// MagicLink is a single-use login token issued to an email address.
type MagicLink struct {
	Token string
	Email string

	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

func (m MagicLink) Consumed() bool {
	return m.UsedAt != nil
}

// ExpiredAt reports whether the link is past its validity window at now.
func (m MagicLink) ExpiredAt(now time.Time) bool {
	return now.After(m.ExpiresAt)
}
