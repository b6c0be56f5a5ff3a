package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"magiclink/api/handler"
	apiMiddleware "magiclink/api/middleware"
	"magiclink/api/routes"
	"magiclink/config"
	"magiclink/internal/repository"
	"magiclink/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	links := repository.NewMemoryMagicLinkRepository()
	tokens := service.NewTokenManager(links, service.RealClock{}, service.DefaultLinkTTL, logger)

	sweeper := service.NewSweeper(tokens, logger, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	if !cfg.EmailConfigured() {
		logger.Warn("RESEND_API_KEY or FROM_EMAIL missing, running in demo mode: links are returned to the client")
	}
	sender := service.NewEmailSender(cfg.ResendAPIKey, cfg.FromEmail, service.DefaultLinkTTL, logger)

	magicLinks := service.NewMagicLinkService(tokens, sender, logger, service.MagicLinkConfig{
		PublicBaseURL:   cfg.PublicBaseURL,
		DeliveryTimeout: cfg.EmailSendTimeout,
	})

	authHandler := handler.NewAuthHandler(magicLinks, validator.New(), cfg.FrontendURL)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(apiMiddleware.RequestID(logger))
	app.Use(apiMiddleware.RequestLogger(logger))
	app.Use(apiMiddleware.CORS(cfg.AllowedOrigins()))

	router := routes.NewRouter(app, authHandler)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":         cfg.HTTPAddr,
			"public_url":   cfg.PublicBaseURL,
			"frontend_url": cfg.FrontendURL,
		}).Info("server started")
		if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server shut down")
}
