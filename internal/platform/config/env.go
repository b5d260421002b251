// Package config holds the environment parsing and exit helpers shared by
// the command entrypoints.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// IsSet reports whether key is present in the environment, even when empty.
// Fields whose zero value is meaningful use it to tell "unset" from zero.
func IsSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
