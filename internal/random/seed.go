// Package random provides seed generation for battle dice.
//
// Battles are reproducible from their seed: a scenario resolved twice with the
// same seed yields the same report log.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns configured when it is set, otherwise a fresh seed.
// Zero means "not configured".
func ResolveSeed(configured int64) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	return NewSeed()
}
