package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"magiclink/api/middleware"
	"magiclink/internal/dto"
	"magiclink/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service     *service.MagicLinkService
	Validate    *validator.Validate
	FrontendURL string
}

func NewAuthHandler(svc *service.MagicLinkService, validate *validator.Validate, frontendURL string) *AuthHandler {
	return &AuthHandler{
		Service:     svc,
		Validate:    validate,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (h *AuthHandler) SendLink(c echo.Context) error {
	var req dto.SendLinkRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeServiceError(c, service.ErrInvalidEmail)
	}
	if err := h.validate(req); err != nil {
		return writeServiceError(c, service.ErrInvalidEmail)
	}
	result, err := h.Service.RequestLink(c.Request().Context(), req.Email)
	if err != nil {
		middleware.LoggerFromContext(c).WithError(err).Error("send magic link failed")
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SendLinkResponseFromResult(result))
}

func (h *AuthHandler) VerifyToken(c echo.Context) error {
	result, err := h.Service.Verify(c.Request().Context(), c.Param("token"))
	if err != nil {
		if !isClientError(err) {
			middleware.LoggerFromContext(c).WithError(err).Error("verify magic link failed")
		}
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VerifyResponseFromResult(result))
}

// RedirectToFrontend sends links opened from an email to the frontend
// verification view.
func (h *AuthHandler) RedirectToFrontend(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.Redirect(http.StatusFound, h.FrontendURL+"/?error=missing_token")
	}
	return c.Redirect(http.StatusFound, h.FrontendURL+"/verify/"+url.PathEscape(token))
}

func (h *AuthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, code string, message string) error {
	return c.JSON(status, dto.ErrorResponse{Success: false, Error: code, Message: message})
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return writeError(c, http.StatusBadRequest, dto.CodeInvalidEmail, "Invalid email address")
	case errors.Is(err, service.ErrMissingToken):
		return writeError(c, http.StatusBadRequest, dto.CodeMissingToken, "Token is missing in the request.")
	case errors.Is(err, service.ErrInvalidToken):
		return writeError(c, http.StatusNotFound, dto.CodeInvalidToken, "Your link is invalid or has expired.")
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		return writeError(c, http.StatusBadRequest, dto.CodeTokenAlreadyUsed, "This link has already been used.")
	case errors.Is(err, service.ErrTokenExpired):
		return writeError(c, http.StatusBadRequest, dto.CodeTokenExpired, "The link has expired (15 minutes). Please request a new one.")
	}
	return writeError(c, http.StatusInternalServerError, dto.CodeServerError, "An unexpected error occurred. Please try again.")
}

func isClientError(err error) bool {
	return errors.Is(err, service.ErrMissingToken) ||
		errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrTokenAlreadyUsed) ||
		errors.Is(err, service.ErrTokenExpired)
}
