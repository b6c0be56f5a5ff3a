package service

import "errors"

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid or unknown token")
	ErrTokenAlreadyUsed   = errors.New("token already used")
	ErrTokenExpired       = errors.New("token expired")
	ErrEmailNotConfigured = errors.New("email sender not configured")
)
