package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by LoadConfig.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig loads and validates the configuration.
//
// It performs the following steps in order:
//  1. Sets the process timezone to UTC.
//  2. Loads a .env file if present (non-fatal if missing).
//  3. Processes envconfig tags to populate the Config struct.
//  4. Populates Config.Build from linker-injected variables.
//  5. Validates the Config struct.
func LoadConfig() (*Config, error) {
	time.Local = time.UTC

	// godotenv does NOT override variables already present in the environment.
	_ = godotenv.Load()

	// The empty prefix means envconfig falls back to the exact tag values
	// (e.g., envconfig:"PORT" reads PORT directly).
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation over cfg. It is exported so that callers
// applying CLI overrides after LoadConfig can re-check the result.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	return nil
}
