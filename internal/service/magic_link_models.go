package service

import "time"

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// ConsumeOutcome is one of OutcomeNotFound, OutcomeAlreadyUsed,
// OutcomeExpired or OutcomeSuccess.
type ConsumeOutcome interface {
	consumeOutcome()
}

type OutcomeNotFound struct{}

type OutcomeAlreadyUsed struct{}

type OutcomeExpired struct{}

type OutcomeSuccess struct {
	Email      string
	ConsumedAt time.Time
}

func (OutcomeNotFound) consumeOutcome()    {}
func (OutcomeAlreadyUsed) consumeOutcome() {}
func (OutcomeExpired) consumeOutcome()     {}
func (OutcomeSuccess) consumeOutcome()     {}

type RequestLinkResult struct {
	Token     string
	Link      string
	ExpiresAt time.Time

	Sent           bool
	Method         string
	DeliveryFailed bool
	DeliveryError  string
}

type VerifyResult struct {
	Email     string
	Token     string
	LoginTime time.Time
}
