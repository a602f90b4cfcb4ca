package logger

import (
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	log := Get()
	if log == nil {
		t.Fatal("logger is nil after initialization")
	}

	ctx := context.Background()
	log.Info(ctx, "info message", String("key", "value"))
	log.Debug(ctx, "debug message", Int("n", 1))
	log.Warn(ctx, "warn message", Float64("f", 1.5))
	log.Error(ctx, "error message", Any("v", struct{}{}))

	named := log.Named("component")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(ctx, "named message")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) returned error: %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
