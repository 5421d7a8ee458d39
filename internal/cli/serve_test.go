package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flaresentinel/internal/config"
)

func testServeConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>FlareSentinel</h1>"), 0o644))

	return &config.Config{
		Environment: "local",
		LogLevel:    "info",
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			StaticDir:       dir,
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 2 * time.Second,
		},
		Detection: config.DetectionConfig{MaxBodyBytes: 1 << 20, MaxImagePixels: 1000},
		Alert: config.AlertConfig{
			Enabled:          true,
			RecipientAddress: "user@example.com",
			FromAddress:      "alerts@flaresentinel.local",
			Subject:          "URGENT: Unsafe Condition Detected!",
		},
		Security:      config.SecurityConfig{CorsAllowedOrigins: []string{"*"}},
		Observability: config.ObservabilityConfig{MetricNamespace: "FlareSentinel", AWSRegion: "us-east-1"},
	}
}

func redPNGDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.Set(i%2, i/2, color.NRGBA{255, 0, 0, 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRunServer_ServesAndShutsDown(t *testing.T) {
	cfg := testServeConfig(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cfg, logger, ln) }()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(base + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(base + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "FlareSentinel")

	payload := fmt.Sprintf(`{"image":%q}`, redPNGDataURL(t))
	resp, err = client.Post(base+"/detect", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "unsafe", "confidence": 1.0}, result)

	resp, err = client.Post(base+"/detect", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Contains(t, logs.String(), "SIMULATING EMAIL ALERT")
	assert.Contains(t, logs.String(), "shutdown complete")
}

func TestApplyServeOverrides(t *testing.T) {
	cfg := testServeConfig(t)
	cfg.Server.Port = "5000"

	cmd := NewServeCommand(&RootOptions{})
	require.NoError(t, cmd.ParseFlags([]string{"--host", "0.0.0.0", "--port", "8080"}))
	require.NoError(t, applyServeOverrides(cmd, cfg, &serveOptions{host: "0.0.0.0", port: "8080"}))
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestApplyServeOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	cfg := testServeConfig(t)
	cfg.Server.Port = "5000"

	cmd := NewServeCommand(&RootOptions{})
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, applyServeOverrides(cmd, cfg, &serveOptions{host: "ignored", port: "1"}))
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr())
}

func TestApplyServeOverrides_InvalidPort(t *testing.T) {
	cfg := testServeConfig(t)

	cmd := NewServeCommand(&RootOptions{})
	require.NoError(t, cmd.ParseFlags([]string{"--port", "http"}))
	err := applyServeOverrides(cmd, cfg, &serveOptions{port: "http"})

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ErrValidation, cfgErr.Type)
}

func TestNewLogger_Levels(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		logger := newLogger(name, io.Discard)
		assert.True(t, logger.Enabled(context.Background(), want), name)
		if want > slog.LevelDebug {
			assert.False(t, logger.Enabled(context.Background(), want-4), name)
		}
	}
}
