package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. Only variables that are
// actually set override the values accumulated so far.
type envConfig struct {
	EndpointAddr             string        `env:"SERVER_ADDRESS"`
	DatabaseDSN              string        `env:"DATABASE_DSN"`
	SecretKey                string        `env:"SECRET_KEY"`
	AccessTokenValidity      time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	VerificationCodeValidity time.Duration `env:"VERIFICATION_CODE_VALIDITY"`
	GoogleClientID           string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret       string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL        string        `env:"GOOGLE_REDIRECT_URL"`
	SMTPHost                 string        `env:"SMTP_HOST"`
	SMTPPort                 int           `env:"SMTP_PORT"`
	SMTPUsername             string        `env:"SMTP_USERNAME"`
	SMTPPassword             string        `env:"SMTP_PASSWORD"`
	AllowedOrigin            string        `env:"ALLOWED_ORIGIN"`
}

func parseEnv(config *Config) {
	e := &envConfig{}
	if err := env.Parse(e); err != nil {
		panic(err)
	}

	if e.EndpointAddr != "" {
		config.EndpointAddr = e.EndpointAddr
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.AccessTokenValidity != 0 {
		config.AccessTokenValidity = e.AccessTokenValidity
	}
	if e.VerificationCodeValidity != 0 {
		config.VerificationCodeValidity = e.VerificationCodeValidity
	}
	if e.GoogleClientID != "" {
		config.GoogleClientID = e.GoogleClientID
	}
	if e.GoogleClientSecret != "" {
		config.GoogleClientSecret = e.GoogleClientSecret
	}
	if e.GoogleRedirectURL != "" {
		config.GoogleRedirectURL = e.GoogleRedirectURL
	}
	if e.SMTPHost != "" {
		config.SMTPHost = e.SMTPHost
	}
	if e.SMTPPort != 0 {
		config.SMTPPort = e.SMTPPort
	}
	if e.SMTPUsername != "" {
		config.SMTPUsername = e.SMTPUsername
	}
	if e.SMTPPassword != "" {
		config.SMTPPassword = e.SMTPPassword
	}
	if e.AllowedOrigin != "" {
		config.AllowedOrigin = e.AllowedOrigin
	}
}
