package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"chama/internal/config"
	applog "chama/internal/log"
)

func testLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelDebug, Format: "text", Output: buf})
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("THEME", "forest")

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.Theme != "forest" {
		t.Errorf("got port %q theme %q", cfg.Port, cfg.Theme)
	}
}

func TestLoadAndValidateConfigRejectsInvalid(t *testing.T) {
	t.Setenv("THEME", "neon")

	if _, err := LoadAndValidateConfig(); err == nil || !strings.Contains(err.Error(), "invalid theme") {
		t.Fatalf("expected invalid theme error, got %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}
	logger := SetupLogger(cfg)

	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
}

func TestGracefulShutdown(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf)

	if err := GracefulShutdown(logger, time.Second, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Shutdown complete") {
		t.Error("expected completion log")
	}

	boom := errors.New("boom")
	if err := GracefulShutdown(logger, time.Second, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestGracefulShutdownTimeout(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf)

	err := GracefulShutdown(logger, 20*time.Millisecond, func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestSignalContextCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := SignalContext(context.Background(), testLogger(&buf))
	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
