// Package config defines the process configuration for FlareSentinel.
// Configuration is loaded once at startup and is immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> struct tag defaults (Lowest)
//
// Any invalid value causes startup to fail fast with a *ConfigError.
package config

import (
	"net"
	"time"
)

// Config is the top-level configuration struct.
// Sub-components receive only the config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"OTEL_SERVICE_NAME" default:"flaresentinel"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Domain Configurations
	Server        ServerConfig
	Detection     DetectionConfig
	Alert         AlertConfig
	Security      SecurityConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP listener and static asset configuration.
type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" default:"5000" validate:"required,numeric"`
	StaticDir       string        `envconfig:"STATIC_DIR" default:"web" validate:"required"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DetectionConfig bounds the resources a single detect request may consume.
type DetectionConfig struct {
	MaxBodyBytes   int64 `envconfig:"MAX_BODY_BYTES" default:"10485760" validate:"gt=0"`
	MaxImagePixels int   `envconfig:"MAX_IMAGE_PIXELS" default:"40000000" validate:"gt=0"`
}

// AlertConfig holds the alert recipient and sender identity. It is read-only
// during request handling and passed to the notifier explicitly.
type AlertConfig struct {
	Enabled          bool   `envconfig:"ALERT_ENABLED" default:"true"`
	RecipientAddress string `envconfig:"ALERT_RECIPIENT_EMAIL" default:"user@example.com" validate:"required,email"`
	FromAddress      string `envconfig:"ALERT_FROM_ADDRESS" default:"alerts@flaresentinel.local" validate:"required,email"`
	FromName         string `envconfig:"ALERT_FROM_NAME" default:"FlareSentinel Alerts"`
	Subject          string `envconfig:"ALERT_SUBJECT" default:"URGENT: Unsafe Condition Detected!" validate:"required"`
}

// SecurityConfig holds browser-facing security settings.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ObservabilityConfig holds telemetry settings. Metrics are published to
// CloudWatch only when MetricsEnabled is set.
type ObservabilityConfig struct {
	MetricsEnabled  bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"FlareSentinel"`
	AWSRegion       string `envconfig:"AWS_REGION" default:"us-east-1"`
	// LocalStack Support (Empty in Prod)
	AWSEndpointURL string `envconfig:"AWS_ENDPOINT_URL" validate:"omitempty,url"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string `ignored:"true"`
	Commit    string `ignored:"true"`
	BuildTime string `ignored:"true"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
