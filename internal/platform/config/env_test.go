package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	MaxRounds int `env:"ACAR_TEST_MAX_ROUNDS" envDefault:"100"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.MaxRounds != 100 {
		t.Fatalf("expected default max rounds 100, got %d", cfg.MaxRounds)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("ACAR_TEST_MAX_ROUNDS", "forever")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestIsSet(t *testing.T) {
	t.Setenv("ACAR_TEST_SEED", "0")
	if !IsSet("ACAR_TEST_SEED") {
		t.Fatal("expected ACAR_TEST_SEED to be set")
	}
	if IsSet("ACAR_TEST_DEFINITELY_UNSET") {
		t.Fatal("expected unset variable")
	}
}
