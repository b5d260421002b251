package battle

import (
	"fmt"
	"strings"
)

// MoraleStatus is the ordered combat-effectiveness state of a formation.
// Lower ordinals are better; MoraleNormal is the best state.
type MoraleStatus int

const (
	MoraleNormal MoraleStatus = iota
	MoraleShaken
	MoraleUnsteady
	MoraleBroken
	MoraleRouted
)

var moraleNames = map[MoraleStatus]string{
	MoraleNormal:   "Normal",
	MoraleShaken:   "Shaken",
	MoraleUnsteady: "Unsteady",
	MoraleBroken:   "Broken",
	MoraleRouted:   "Routed",
}

func (m MoraleStatus) String() string {
	if name, ok := moraleNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MoraleStatus(%d)", int(m))
}

// Valid reports whether m is one of the defined states.
func (m MoraleStatus) Valid() bool {
	return m >= MoraleNormal && m <= MoraleRouted
}

// IsBest reports whether no recovery is possible from m.
func (m MoraleStatus) IsBest() bool {
	return m.mustValid() == MoraleNormal
}

// Worsen returns the state one step worse than m. Routed stays Routed.
func (m MoraleStatus) Worsen() MoraleStatus {
	if m.mustValid() >= MoraleBroken {
		return MoraleRouted
	}
	return m + 1
}

// Improve returns the state one step better than m. Normal stays Normal.
func (m MoraleStatus) Improve() MoraleStatus {
	if m.mustValid() == MoraleNormal {
		return MoraleNormal
	}
	return m - 1
}

func (m MoraleStatus) mustValid() MoraleStatus {
	if !m.Valid() {
		panic(fmt.Sprintf("battle: morale status %d out of range", int(m)))
	}
	return m
}

// ParseMoraleStatus parses a morale status name, case-insensitively.
func ParseMoraleStatus(value string) (MoraleStatus, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return MoraleNormal, nil
	}
	for status, name := range moraleNames {
		if strings.EqualFold(name, trimmed) {
			return status, nil
		}
	}
	return 0, fmt.Errorf("morale status %q is not supported", trimmed)
}
