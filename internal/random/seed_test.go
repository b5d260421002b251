package random

import "testing"

func TestResolveSeedKeepsConfiguredSeed(t *testing.T) {
	seed, err := ResolveSeed(42)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if seed != 42 {
		t.Fatalf("seed = %d, want 42", seed)
	}
}

func TestResolveSeedGeneratesWhenUnset(t *testing.T) {
	first, err := ResolveSeed(0)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	second, err := ResolveSeed(0)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct generated seeds, got %d twice", first)
	}
}
