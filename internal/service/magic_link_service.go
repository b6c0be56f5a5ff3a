package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"magiclink/internal/utils"

	"github.com/sirupsen/logrus"
)

// MagicLinkService validates requests, issues links and delivers them, and
// translates token outcomes into results for the HTTP layer.
type MagicLinkService struct {
	tokens TokenLifecycle
	sender EmailSender
	logger logrus.FieldLogger
	config MagicLinkConfig
}

func NewMagicLinkService(tokens TokenLifecycle, sender EmailSender, logger logrus.FieldLogger, config MagicLinkConfig) *MagicLinkService {
	return &MagicLinkService{
		tokens: tokens,
		sender: sender,
		logger: logger,
		config: config,
	}
}

// RequestLink issues a link for email and tries to deliver it. A delivery
// failure is not an error: the result carries the link so the caller can
// show it directly.
func (s *MagicLinkService) RequestLink(ctx context.Context, email string) (*RequestLinkResult, error) {
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	issued, err := s.tokens.Issue(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("issue magic link: %w", err)
	}

	link := s.buildURL(issued.Token)
	result := &RequestLinkResult{
		Token:     issued.Token,
		Link:      link,
		ExpiresAt: issued.ExpiresAt,
	}

	delivery, err := s.deliver(ctx, email, link)
	result.Method = delivery.Method
	if err != nil {
		s.log().WithError(err).
			WithField("method", delivery.Method).
			WithField("token", utils.FingerprintToken(issued.Token)).
			Warn("magic link delivery failed, returning link to client")
		result.DeliveryFailed = true
		result.DeliveryError = err.Error()
		return result, nil
	}
	result.Sent = true
	return result, nil
}

// Verify consumes token and reports who it was issued to.
func (s *MagicLinkService) Verify(ctx context.Context, token string) (*VerifyResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	outcome, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify magic link: %w", err)
	}

	switch o := outcome.(type) {
	case OutcomeSuccess:
		return &VerifyResult{Email: o.Email, Token: token, LoginTime: o.ConsumedAt}, nil
	case OutcomeNotFound:
		return nil, ErrInvalidToken
	case OutcomeAlreadyUsed:
		return nil, ErrTokenAlreadyUsed
	case OutcomeExpired:
		return nil, ErrTokenExpired
	default:
		return nil, fmt.Errorf("verify magic link: unexpected outcome %T", outcome)
	}
}

func (s *MagicLinkService) deliver(ctx context.Context, email string, link string) (Delivery, error) {
	if s.sender == nil {
		return Delivery{Method: MethodDemo}, ErrEmailNotConfigured
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout())
	defer cancel()

	type sendResult struct {
		delivery Delivery
		err      error
	}
	done := make(chan sendResult, 1)
	go func() {
		delivery, err := s.sender.SendMagicLink(sendCtx, email, link)
		done <- sendResult{delivery: delivery, err: err}
	}()

	select {
	case res := <-done:
		return res.delivery, res.err
	case <-sendCtx.Done():
		return Delivery{Method: MethodTimeout}, fmt.Errorf("email delivery: %w", sendCtx.Err())
	}
}

func (s *MagicLinkService) buildURL(token string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	return fmt.Sprintf("%s/verify/%s", base, url.PathEscape(token))
}

func (s *MagicLinkService) deliveryTimeout() time.Duration {
	if s.config.DeliveryTimeout > 0 {
		return s.config.DeliveryTimeout
	}
	return DefaultDeliveryTimeout
}

func (s *MagicLinkService) log() logrus.FieldLogger {
	if s.logger == nil {
		return logrus.StandardLogger()
	}
	return s.logger
}

func validEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
