package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OdooURL      string `json:"odoo_url"`
	OdooDB       string `json:"odoo_db"`
	OdooUsername string `json:"odoo_username"`
	OdooPassword string `json:"-"`

	GeminiAPIKey string `json:"-"`
	GeminiModel  string `json:"gemini_model"`

	LogLevel           string `json:"log_level"`
	Debug              bool   `json:"debug"`
	DevMode            bool   `json:"dev_mode"`
	ShowFullErrorTrace bool   `json:"show_full_error_trace"`

	HistorySize     int    `json:"conversation_history_size"`
	DefaultLanguage string `json:"default_language"`

	// Transport settings for the Odoo connection
	SSLVerify         bool          `json:"ssl_verify"`
	SSLCertPath       string        `json:"ssl_cert_path"`
	ConnectionTimeout time.Duration `json:"connection_timeout"`
}

// ValidationError reports a configuration value that is missing or malformed,
// naming the environment variable so the user knows what to fix.
type ValidationError struct {
	Var    string
	Reason string
	Hint   string
}

func (e *ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("config: %s %s (%s)", e.Var, e.Reason, e.Hint)
	}
	return fmt.Sprintf("config: %s %s", e.Var, e.Reason)
}

func DefaultConfig() *Config {
	return &Config{
		OdooURL:      "http://localhost:8069",
		OdooDB:       "odoo",
		OdooUsername: "admin",
		OdooPassword: "",

		GeminiModel: "gemini-2.0-flash",

		LogLevel:           "info",
		Debug:              false,
		DevMode:            false,
		ShowFullErrorTrace: false,

		HistorySize:     5,
		DefaultLanguage: "en_US",

		SSLVerify:         true,
		ConnectionTimeout: 30 * time.Second,
	}
}

// Load assembles the effective configuration once at startup: defaults first,
// then a .env file if present, then environment variable overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() error {
	if val := os.Getenv("ODOO_URL"); val != "" {
		c.OdooURL = val
	}
	if val := os.Getenv("ODOO_DB"); val != "" {
		c.OdooDB = val
	}
	if val := os.Getenv("ODOO_USERNAME"); val != "" {
		c.OdooUsername = val
	}
	if val := os.Getenv("ODOO_PASSWORD"); val != "" {
		c.OdooPassword = val
	}

	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		c.GeminiAPIKey = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		c.GeminiModel = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("DEBUG_MODE"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return &ValidationError{Var: "DEBUG_MODE", Reason: "is not a boolean", Hint: "use true or false"}
		}
		c.Debug = enabled
	}
	if val := os.Getenv("DEV_MODE"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return &ValidationError{Var: "DEV_MODE", Reason: "is not a boolean", Hint: "use true or false"}
		}
		c.DevMode = enabled
	}
	if val := os.Getenv("SHOW_FULL_ERROR_TRACE"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return &ValidationError{Var: "SHOW_FULL_ERROR_TRACE", Reason: "is not a boolean", Hint: "use true or false"}
		}
		c.ShowFullErrorTrace = enabled
	}

	if val := os.Getenv("CONVERSATION_HISTORY_SIZE"); val != "" {
		v, err := strconv.Atoi(val)
		if err != nil {
			return &ValidationError{Var: "CONVERSATION_HISTORY_SIZE", Reason: "is not an integer", Hint: val}
		}
		c.HistorySize = v
	}
	if val := os.Getenv("DEFAULT_LANGUAGE"); val != "" {
		c.DefaultLanguage = val
	}

	if val := os.Getenv("SSL_VERIFY"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return &ValidationError{Var: "SSL_VERIFY", Reason: "is not a boolean", Hint: "use true or false"}
		}
		c.SSLVerify = enabled
	}
	if val := os.Getenv("SSL_CERT_PATH"); val != "" {
		c.SSLCertPath = val
	}
	if val := os.Getenv("CONNECTION_TIMEOUT"); val != "" {
		v, err := strconv.Atoi(val)
		if err != nil {
			return &ValidationError{Var: "CONNECTION_TIMEOUT", Reason: "is not an integer number of seconds", Hint: val}
		}
		c.ConnectionTimeout = time.Duration(v) * time.Second
	}

	return nil
}

func (c *Config) Validate() error {
	if c.OdooURL == "" {
		return &ValidationError{Var: "ODOO_URL", Reason: "must not be empty", Hint: "e.g. http://localhost:8069"}
	}
	u, err := url.Parse(c.OdooURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Var: "ODOO_URL", Reason: "is not a valid URL", Hint: c.OdooURL}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Var: "ODOO_URL", Reason: "must use http or https", Hint: c.OdooURL}
	}
	if c.OdooDB == "" {
		return &ValidationError{Var: "ODOO_DB", Reason: "must not be empty"}
	}
	if c.OdooUsername == "" {
		return &ValidationError{Var: "ODOO_USERNAME", Reason: "must not be empty"}
	}
	if c.HistorySize < 1 {
		return &ValidationError{Var: "CONVERSATION_HISTORY_SIZE", Reason: "must be a positive integer"}
	}
	if c.ConnectionTimeout <= 0 {
		return &ValidationError{Var: "CONNECTION_TIMEOUT", Reason: "must be a positive number of seconds"}
	}
	if c.SSLCertPath != "" {
		if _, err := os.Stat(c.SSLCertPath); err != nil {
			return &ValidationError{Var: "SSL_CERT_PATH", Reason: "does not point to a readable file", Hint: c.SSLCertPath}
		}
	}
	return nil
}

// RequireGeminiKey is checked by commands that talk to the LLM; the inspection
// commands only need the Odoo side and skip it.
func (c *Config) RequireGeminiKey() error {
	if c.GeminiAPIKey == "" {
		return &ValidationError{Var: "GEMINI_API_KEY", Reason: "must be set", Hint: "create a key in Google AI Studio"}
	}
	return nil
}
