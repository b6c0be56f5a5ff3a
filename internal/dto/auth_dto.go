package dto

import (
	"time"

	"magiclink/internal/service"
)

// Error codes returned in the "error" field.
const (
	CodeInvalidEmail     = "INVALID_EMAIL"
	CodeMissingToken     = "MISSING_TOKEN"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeTokenAlreadyUsed = "TOKEN_ALREADY_USED"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeServerError      = "SERVER_ERROR"
)

type SendLinkRequest struct {
	Email string `json:"email" validate:"required,contains=@"`
}

type DebugInfo struct {
	Token        string `json:"token"`
	Link         string `json:"link"`
	SentViaEmail bool   `json:"sentViaEmail"`
	Method       string `json:"method"`
	Error        string `json:"error,omitempty"`
}

type SendLinkResponse struct {
	Success            bool      `json:"success"`
	Message            string    `json:"message"`
	ShowLinkInFrontend bool      `json:"showLinkInFrontend,omitempty"`
	DebugInfo          DebugInfo `json:"debugInfo"`
}

type VerifyResponse struct {
	Success   bool   `json:"success"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	LoginTime string `json:"loginTime"`
	Token     string `json:"token"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func SendLinkResponseFromResult(result *service.RequestLinkResult) SendLinkResponse {
	response := SendLinkResponse{
		Success: true,
		DebugInfo: DebugInfo{
			Token:        result.Token,
			Link:         result.Link,
			SentViaEmail: result.Sent,
			Method:       result.Method,
		},
	}
	if result.DeliveryFailed {
		response.Message = "Unable to send email at the moment, but you can use the link below:"
		response.ShowLinkInFrontend = true
		response.DebugInfo.Error = result.DeliveryError
		if response.DebugInfo.Error == "" {
			response.DebugInfo.Error = "Not identified"
		}
		return response
	}
	response.Message = "Email sent successfully! Check your inbox."
	return response
}

func VerifyResponseFromResult(result *service.VerifyResult) VerifyResponse {
	return VerifyResponse{
		Success:   true,
		Email:     result.Email,
		Message:   "You have successfully logged in!",
		LoginTime: result.LoginTime.UTC().Format(time.RFC3339Nano),
		Token:     result.Token,
	}
}
