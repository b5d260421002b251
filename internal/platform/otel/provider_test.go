package otel_test

import (
	"context"
	"testing"

	"github.com/megamek/acar/internal/platform/otel"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("ACAR_OTEL_ENDPOINT", "")
	t.Setenv("ACAR_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "autoresolve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("ACAR_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("ACAR_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "autoresolve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export happens.
	t.Setenv("ACAR_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("ACAR_OTEL_ENABLED", "true")
	t.Setenv("ACAR_OTEL_SAMPLE_RATIO", "0.5")

	shutdown, err := otel.Setup(context.Background(), "combat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestLoadSettingsRejectsBadRatio(t *testing.T) {
	t.Setenv("ACAR_OTEL_SAMPLE_RATIO", "1.5")

	if _, err := otel.LoadSettings(); err == nil {
		t.Fatal("expected sample ratio error")
	}
}
