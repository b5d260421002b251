package battle

import (
	"fmt"
	"strings"
)

// Range is the distance bracket an attack is made at.
type Range int

const (
	RangeShort Range = iota
	RangeMedium
	RangeLong
	RangeExtreme
)

var rangeNames = map[Range]string{
	RangeShort:   "short",
	RangeMedium:  "medium",
	RangeLong:    "long",
	RangeExtreme: "extreme",
}

func (r Range) String() string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Range(%d)", int(r))
}

// Valid reports whether r is a defined bracket.
func (r Range) Valid() bool {
	return r >= RangeShort && r <= RangeExtreme
}

// ParseRange parses a range bracket name.
func ParseRange(value string) (Range, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	for r, name := range rangeNames {
		if name == trimmed {
			return r, nil
		}
	}
	return 0, fmt.Errorf("range %q is not supported", value)
}

// EngagementControl is the maneuver stance a formation adopts against a
// target during movement.
type EngagementControl int

const (
	EngagementNone EngagementControl = iota
	EngagementForced
	EngagementEvade
	EngagementOverrun
)

var engagementNames = map[EngagementControl]string{
	EngagementNone:    "none",
	EngagementForced:  "forced",
	EngagementEvade:   "evade",
	EngagementOverrun: "overrun",
}

func (e EngagementControl) String() string {
	if name, ok := engagementNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EngagementControl(%d)", int(e))
}

// Valid reports whether e is a defined stance.
func (e EngagementControl) Valid() bool {
	return e >= EngagementNone && e <= EngagementOverrun
}

// ParseEngagementControl parses a stance name. Empty means none.
func ParseEngagementControl(value string) (EngagementControl, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "":
		return EngagementNone, nil
	case "forced_engagement", "forced-engagement":
		return EngagementForced, nil
	}
	for e, name := range engagementNames {
		if name == trimmed {
			return e, nil
		}
	}
	return 0, fmt.Errorf("engagement control %q is not supported", value)
}

// EngagementRecord is the remembered outcome of an engagement-control
// attempt against one target.
type EngagementRecord struct {
	TargetID int
	Control  EngagementControl
	Victory  bool
}

// DamageMultiplier scales damage dealt by the recording formation against
// the record's target.
func (r EngagementRecord) DamageMultiplier() float64 {
	switch {
	case r.Victory && r.Control == EngagementOverrun:
		return 0.25
	case r.Victory && r.Control == EngagementForced:
		return 0.5
	case !r.Victory && r.Control == EngagementEvade:
		return 0.5
	default:
		return 1
	}
}
