package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fashionguide/chat-backend/internal/flagx"
	"github.com/fashionguide/chat-backend/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr             string         `json:"endpoint_addr"`
	DatabaseDSN              string         `json:"database_dsn"`
	SecretKey                string         `json:"secret_key"`
	AccessTokenValidity      timex.Duration `json:"access_token_validity"`
	VerificationCodeValidity timex.Duration `json:"verification_code_validity"`
	GoogleClientID           string         `json:"google_client_id"`
	GoogleClientSecret       string         `json:"google_client_secret"`
	GoogleRedirectURL        string         `json:"google_redirect_url"`
	SMTPHost                 string         `json:"smtp_host"`
	SMTPPort                 int            `json:"smtp_port"`
	SMTPUsername             string         `json:"smtp_username"`
	SMTPPassword             string         `json:"smtp_password"`
	AllowedOrigin            string         `json:"allowed_origin"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidity = time.Duration(c.AccessTokenValidity.Duration)
	config.VerificationCodeValidity = time.Duration(c.VerificationCodeValidity.Duration)
	config.GoogleClientID = c.GoogleClientID
	config.GoogleClientSecret = c.GoogleClientSecret
	config.GoogleRedirectURL = c.GoogleRedirectURL
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUsername = c.SMTPUsername
	config.SMTPPassword = c.SMTPPassword
	config.AllowedOrigin = c.AllowedOrigin
}
