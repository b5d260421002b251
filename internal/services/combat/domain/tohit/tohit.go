// Package tohit computes the 2d6 target numbers for attacks, maneuvers and
// morale tests. A computation accumulates labeled modifiers until a sentinel
// modifier settles the outcome.
package tohit

import (
	"fmt"
	"math"
	"strings"

	"github.com/megamek/acar/internal/core/check"
)

// Sentinel target values.
const (
	Impossible       = math.MaxInt32
	AutomaticFail    = math.MaxInt32 - 1
	AutomaticSuccess = math.MinInt32
)

// MaxRollable is the highest 2d6 total.
const MaxRollable = 12

// Modifier is one labeled contribution to a target number.
type Modifier struct {
	Value int
	Label string
}

// ToHit is a target number with its explanation.
type ToHit struct {
	value     int
	modifiers []Modifier
	sentinel  bool
}

// New starts a computation from a base value.
func New(base int, label string) ToHit {
	t := ToHit{}
	t.Add(base, label)
	return t
}

// Add applies a modifier. A sentinel value replaces the whole computation and
// later modifiers are ignored.
func (t *ToHit) Add(value int, label string) {
	if t.sentinel {
		return
	}
	if isSentinel(value) {
		t.value = value
		t.modifiers = []Modifier{{Value: value, Label: label}}
		t.sentinel = true
		return
	}
	t.value += value
	t.modifiers = append(t.modifiers, Modifier{Value: value, Label: label})
}

// Value returns the target number, which may be a sentinel.
func (t ToHit) Value() int {
	return t.value
}

// Modifiers returns the applied modifiers in order.
func (t ToHit) Modifiers() []Modifier {
	return append([]Modifier(nil), t.modifiers...)
}

// IsSentinel reports whether a sentinel settled the computation.
func (t ToHit) IsSentinel() bool {
	return t.sentinel
}

// CannotSucceed reports whether no 2d6 roll can meet the target.
func (t ToHit) CannotSucceed() bool {
	return t.value == Impossible || t.value > MaxRollable
}

// Succeeds reports whether roll meets the target.
func (t ToHit) Succeeds(roll int) bool {
	switch t.value {
	case AutomaticSuccess:
		return true
	case Impossible, AutomaticFail:
		return false
	default:
		return check.MeetsTarget(roll, t.value)
	}
}

// Reason returns the label of the settling sentinel, or the empty string.
func (t ToHit) Reason() string {
	if !t.sentinel || len(t.modifiers) == 0 {
		return ""
	}
	return t.modifiers[0].Label
}

// Desc renders the value and modifiers, e.g. "4 (skill 4 + short range -1)".
func (t ToHit) Desc() string {
	if t.sentinel {
		return fmt.Sprintf("%s (%s)", sentinelName(t.value), t.Reason())
	}
	parts := make([]string, 0, len(t.modifiers))
	for i, m := range t.modifiers {
		switch {
		case i == 0:
			parts = append(parts, fmt.Sprintf("%s %d", m.Label, m.Value))
		case m.Value >= 0:
			parts = append(parts, fmt.Sprintf("+ %s %d", m.Label, m.Value))
		default:
			parts = append(parts, fmt.Sprintf("- %s %d", m.Label, -m.Value))
		}
	}
	return fmt.Sprintf("%d (%s)", t.value, strings.Join(parts, " "))
}

func isSentinel(value int) bool {
	return value == Impossible || value == AutomaticFail || value == AutomaticSuccess
}

func sentinelName(value int) string {
	switch value {
	case Impossible:
		return "impossible"
	case AutomaticFail:
		return "automatic failure"
	case AutomaticSuccess:
		return "automatic success"
	default:
		return fmt.Sprint(value)
	}
}
