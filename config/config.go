package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          int    `mapstructure:"PORT"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
	FrontendURL   string `mapstructure:"FRONTEND_URL"`
	// Comma separated.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	ResendAPIKey     string        `mapstructure:"RESEND_API_KEY"`
	FromEmail        string        `mapstructure:"FROM_EMAIL"`
	EmailSendTimeout time.Duration `mapstructure:"EMAIL_SEND_TIMEOUT"`

	SweepInterval time.Duration `mapstructure:"SWEEP_INTERVAL"`

	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}
	return fromEnv(viper.New())
}

func fromEnv(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", 3000)
	v.SetDefault("HTTP_ADDR", "")
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("FRONTEND_URL", "http://localhost:4200")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200,http://127.0.0.1:4200")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("FROM_EMAIL", "")
	v.SetDefault("EMAIL_SEND_TIMEOUT", 10*time.Second)
	v.SetDefault("SWEEP_INTERVAL", 5*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	return &cfg, nil
}

// EmailConfigured reports whether outbound email credentials are present.
// Without them the service runs in demo mode and returns links directly.
func (c *Config) EmailConfigured() bool {
	return strings.TrimSpace(c.ResendAPIKey) != "" && strings.TrimSpace(c.FromEmail) != ""
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
