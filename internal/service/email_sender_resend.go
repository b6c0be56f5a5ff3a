package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

type resendEmails interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendEmailSender delivers magic links through the Resend API.
type ResendEmailSender struct {
	Emails   resendEmails
	From     string
	ValidFor time.Duration
	Logger   logrus.FieldLogger
	Clock    Clock
}

func NewResendEmailSender(apiKey string, from string, logger logrus.FieldLogger) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Emails:   resend.NewClient(apiKey).Emails,
		From:     from,
		ValidFor: DefaultLinkTTL,
		Logger:   logger,
		Clock:    RealClock{},
	}
}

// NewEmailSender returns a Resend sender when credentials are present and a
// demo sender otherwise.
func NewEmailSender(apiKey string, from string, validFor time.Duration, logger logrus.FieldLogger) EmailSender {
	sender := NewResendEmailSender(apiKey, from, logger)
	if sender.Emails == nil {
		return DemoEmailSender{Logger: logger}
	}
	if validFor > 0 {
		sender.ValidFor = validFor
	}
	return sender
}

func (s *ResendEmailSender) SendMagicLink(ctx context.Context, email string, link string) (Delivery, error) {
	if s.Emails == nil {
		return Delivery{Method: MethodDemo}, ErrEmailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return Delivery{Method: MethodResendFailed}, err
	}

	html, text, err := renderMagicLinkEmail(email, link, s.validFor(), s.now())
	if err != nil {
		return Delivery{Method: MethodResendFailed}, fmt.Errorf("render magic link email: %w", err)
	}

	sent, err := s.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: magicLinkSubject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		s.log().WithError(err).Warn("resend delivery failed")
		return Delivery{Method: MethodResendFailed}, fmt.Errorf("resend: %w", err)
	}

	delivery := Delivery{Method: MethodResend}
	if sent != nil {
		delivery.MessageID = sent.Id
	}
	s.log().WithField("message_id", delivery.MessageID).Info("magic link email sent")
	return delivery, nil
}

func (s *ResendEmailSender) validFor() time.Duration {
	if s.ValidFor > 0 {
		return s.ValidFor
	}
	return DefaultLinkTTL
}

func (s *ResendEmailSender) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *ResendEmailSender) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// DemoEmailSender is used when no email credentials are configured. It never
// delivers, so callers fall back to showing the link directly.
type DemoEmailSender struct {
	Logger logrus.FieldLogger
}

func (s DemoEmailSender) SendMagicLink(ctx context.Context, email string, link string) (Delivery, error) {
	if s.Logger != nil {
		s.Logger.Info("demo mode: no email credentials, link will be returned to the client")
	}
	return Delivery{Method: MethodDemo}, ErrEmailNotConfigured
}
