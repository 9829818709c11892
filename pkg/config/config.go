package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	FirebaseProject    string `env:"FIREBASE_PROJECT_ID,required,notEmpty"`
	ServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	ServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	StorageBucket      string `env:"STORAGE_BUCKET"`

	Mail struct {
		SendGridAPIKey string `env:"SENDGRID_API_KEY"`
		FromAddress    string `env:"MAIL_FROM_ADDRESS" envDefault:"hello@limelight.fm"`
		FromName       string `env:"MAIL_FROM_NAME" envDefault:"Limelight"`
	}

	RateLimit struct {
		RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
		Burst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	}
}

// Load reads a local .env file when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.RateLimit.RPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be greater than zero, got %v", cfg.RateLimit.RPS)
	}
	if cfg.RateLimit.Burst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", cfg.RateLimit.Burst)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) MailEnabled() bool {
	return c.Mail.SendGridAPIKey != ""
}
