package routes

import (
	"magiclink/api/handler"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo *echo.Echo
	Auth *handler.AuthHandler
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler) *Router {
	return &Router{
		Echo: e,
		Auth: authHandler,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	api := e.Group("/api")
	api.POST("/send-link", r.Auth.SendLink)
	api.GET("/verify/:token", r.Auth.VerifyToken)
	api.GET("/verify", r.Auth.VerifyToken)
	api.GET("/verify/", r.Auth.VerifyToken)

	e.GET("/verify/:token", r.Auth.RedirectToFrontend)
	e.GET("/verify", r.Auth.RedirectToFrontend)
	e.GET("/verify/", r.Auth.RedirectToFrontend)

	e.GET("/healthz", r.Auth.Health)
}
