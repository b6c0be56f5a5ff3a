package dto

import (
	"testing"
	"time"

	"magiclink/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestSendLinkRequestValidation(t *testing.T) {
	validate := validator.New()

	require.NoError(t, validate.Struct(SendLinkRequest{Email: "user@example.com"}))
	require.Error(t, validate.Struct(SendLinkRequest{Email: ""}))
	require.Error(t, validate.Struct(SendLinkRequest{Email: "not-an-email"}))
}

func TestSendLinkResponseFromResult(t *testing.T) {
	sent := SendLinkResponseFromResult(&service.RequestLinkResult{
		Token: "tok", Link: "http://x/verify/tok", Sent: true, Method: service.MethodResend,
	})
	require.True(t, sent.Success)
	require.False(t, sent.ShowLinkInFrontend)
	require.Equal(t, "Email sent successfully! Check your inbox.", sent.Message)
	require.Equal(t, DebugInfo{Token: "tok", Link: "http://x/verify/tok", SentViaEmail: true, Method: service.MethodResend}, sent.DebugInfo)

	failed := SendLinkResponseFromResult(&service.RequestLinkResult{
		Token: "tok", Link: "http://x/verify/tok", Method: service.MethodDemo, DeliveryFailed: true,
	})
	require.True(t, failed.Success)
	require.True(t, failed.ShowLinkInFrontend)
	require.False(t, failed.DebugInfo.SentViaEmail)
	require.Equal(t, "Not identified", failed.DebugInfo.Error)
}

func TestVerifyResponseFromResult(t *testing.T) {
	loginTime := time.Date(2026, 2, 3, 4, 5, 6, 7000000, time.UTC)
	response := VerifyResponseFromResult(&service.VerifyResult{Email: "User@Example.com", Token: "tok", LoginTime: loginTime})

	require.True(t, response.Success)
	require.Equal(t, "User@Example.com", response.Email)
	require.Equal(t, "2026-02-03T04:05:06.007Z", response.LoginTime)
	require.Equal(t, "tok", response.Token)
}
