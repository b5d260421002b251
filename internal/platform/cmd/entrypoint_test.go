package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Scenario string `env:"ACAR_TEST_SCENARIO" envDefault:"battle.lua"`
	Locale   string `env:"ACAR_TEST_LOCALE" envDefault:"en-US"`
}

func TestParseConfigFromArgsFlagsWinOverEnv(t *testing.T) {
	t.Setenv("ACAR_TEST_SCENARIO", "env.lua")
	t.Setenv("ACAR_TEST_LOCALE", "pt-BR")

	cfg := testConfig{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Scenario, "scenario", "", "scenario")
	fs.StringVar(&cfg.Locale, "locale", "", "locale")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-scenario", "flag.lua"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Scenario != "flag.lua" {
		t.Fatalf("expected flag scenario, got %q", cfg.Scenario)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("expected env locale, got %q", cfg.Locale)
	}
}

func TestParseConfigReadsEnvDefaults(t *testing.T) {
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "battle.lua" || cfg.Locale != "en-US" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigRejectsNil(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceAutoResolve, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("ACAR_OTEL_ENDPOINT", "")
	want := errors.New("boom")
	got := RunWithTelemetry(context.Background(), ServiceCombat, func(context.Context) error { return want })
	if !errors.Is(got, want) {
		t.Fatalf("RunWithTelemetry() = %v, want %v", got, want)
	}
}
