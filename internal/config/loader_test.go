package config

import (
	"errors"
	"testing"
	"time"
)

// TestLoadConfigDefaults verifies that LoadConfig succeeds with an empty
// environment and applies the documented defaults.
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Environment != "local" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "local")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != "5000" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "5000")
	}
	if cfg.Server.Addr() != "0.0.0.0:5000" {
		t.Errorf("Server.Addr() = %q, want %q", cfg.Server.Addr(), "0.0.0.0:5000")
	}
	if cfg.Server.StaticDir != "web" {
		t.Errorf("Server.StaticDir = %q, want %q", cfg.Server.StaticDir, "web")
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
	}
	if cfg.Detection.MaxBodyBytes != 10<<20 {
		t.Errorf("Detection.MaxBodyBytes = %d, want %d", cfg.Detection.MaxBodyBytes, 10<<20)
	}
	if cfg.Detection.MaxImagePixels != 40_000_000 {
		t.Errorf("Detection.MaxImagePixels = %d, want 40000000", cfg.Detection.MaxImagePixels)
	}
	if cfg.Alert.RecipientAddress != "user@example.com" {
		t.Errorf("Alert.RecipientAddress = %q, want %q", cfg.Alert.RecipientAddress, "user@example.com")
	}
	if !cfg.Alert.Enabled {
		t.Error("Alert.Enabled should default to true")
	}
	if cfg.Alert.Subject != "URGENT: Unsafe Condition Detected!" {
		t.Errorf("Alert.Subject = %q", cfg.Alert.Subject)
	}
	if cfg.Observability.MetricsEnabled {
		t.Error("Observability.MetricsEnabled should default to false")
	}
	if len(cfg.Security.CorsAllowedOrigins) != 1 || cfg.Security.CorsAllowedOrigins[0] != "*" {
		t.Errorf("Security.CorsAllowedOrigins = %v, want [*]", cfg.Security.CorsAllowedOrigins)
	}
	if cfg.Build.Version != "dev" {
		t.Errorf("Build.Version = %q, want %q", cfg.Build.Version, "dev")
	}
}

// TestLoadConfigOverrides verifies environment variables take precedence over defaults.
func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8081")
	t.Setenv("STATIC_DIR", "/srv/www")
	t.Setenv("ALERT_RECIPIENT_EMAIL", "ops@plant.example")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Environment != "prod" {
		t.Errorf("Environment = %q, want prod", cfg.Environment)
	}
	if cfg.Server.Addr() != "127.0.0.1:8081" {
		t.Errorf("Server.Addr() = %q, want 127.0.0.1:8081", cfg.Server.Addr())
	}
	if cfg.Server.StaticDir != "/srv/www" {
		t.Errorf("Server.StaticDir = %q", cfg.Server.StaticDir)
	}
	if cfg.Alert.RecipientAddress != "ops@plant.example" {
		t.Errorf("Alert.RecipientAddress = %q", cfg.Alert.RecipientAddress)
	}
	if len(cfg.Security.CorsAllowedOrigins) != 2 {
		t.Errorf("Security.CorsAllowedOrigins = %v, want 2 entries", cfg.Security.CorsAllowedOrigins)
	}
	if !cfg.Observability.MetricsEnabled {
		t.Error("Observability.MetricsEnabled should be true")
	}
}

func TestLoadConfigValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown environment", "APP_ENV", "qa"},
		{"unknown log level", "LOG_LEVEL", "trace"},
		{"non-numeric port", "PORT", "http"},
		{"invalid recipient", "ALERT_RECIPIENT_EMAIL", "not-an-email"},
		{"zero body limit", "MAX_BODY_BYTES", "0"},
		{"bad endpoint url", "AWS_ENDPOINT_URL", "::not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Type != ErrValidation {
				t.Errorf("Type = %q, want %q", cfgErr.Type, ErrValidation)
			}
		})
	}
}

func TestLoadConfigParsingError(t *testing.T) {
	t.Setenv("MAX_IMAGE_PIXELS", "lots")

	_, err := LoadConfig()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Type != ErrParsing {
		t.Errorf("Type = %q, want %q", cfgErr.Type, ErrParsing)
	}
}

func TestConfigErrorFormat(t *testing.T) {
	inner := errors.New("boom")
	withErr := &ConfigError{Type: ErrParsing, Message: "bad", Err: inner}
	if withErr.Error() != "[PARSING_FAILED] bad: boom" {
		t.Errorf("Error() = %q", withErr.Error())
	}
	if !errors.Is(withErr, inner) {
		t.Error("errors.Is should see the wrapped error")
	}

	plain := &ConfigError{Type: ErrValidation, Message: "bad"}
	if plain.Error() != "[VALIDATION_FAILED] bad" {
		t.Errorf("Error() = %q", plain.Error())
	}
}
