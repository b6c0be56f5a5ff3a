package service

import (
	"context"
	"time"
)

const (
	DefaultLinkTTL         = 15 * time.Minute
	DefaultSweepInterval   = 5 * time.Minute
	DefaultDeliveryTimeout = 10 * time.Second
)

type MagicLinkConfig struct {
	// PublicBaseURL is the externally reachable origin of this service,
	// used as the prefix of issued links.
	PublicBaseURL   string
	DeliveryTimeout time.Duration
}

// TokenLifecycle issues and consumes single-use login tokens.
type TokenLifecycle interface {
	Issue(ctx context.Context, email string) (IssuedToken, error)
	Consume(ctx context.Context, token string) (ConsumeOutcome, error)
}

// Delivery methods reported by EmailSender implementations.
const (
	MethodResend       = "resend"
	MethodResendFailed = "resend-failed"
	MethodDemo         = "demo-mode"
	MethodTimeout      = "delivery-timeout"
)

type Delivery struct {
	Method    string
	MessageID string
}

// EmailSender delivers a magic link. A non-nil error means the link was not
// delivered; Delivery.Method is set in both cases.
type EmailSender interface {
	SendMagicLink(ctx context.Context, email string, link string) (Delivery, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
