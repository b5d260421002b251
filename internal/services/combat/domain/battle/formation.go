package battle

import (
	"fmt"
	"strings"
)

// FormationKind describes the composition of a formation for the modifiers
// that depend on it.
type FormationKind int

const (
	KindMixed FormationKind = iota
	KindInfantry
	KindVehicle
	KindAerospace
)

var kindNames = map[FormationKind]string{
	KindMixed:     "mixed",
	KindInfantry:  "infantry",
	KindVehicle:   "vehicle",
	KindAerospace: "aerospace",
}

func (k FormationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FormationKind(%d)", int(k))
}

// ParseFormationKind parses a kind name. Empty means mixed.
func ParseFormationKind(value string) (FormationKind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return KindMixed, nil
	}
	for k, name := range kindNames {
		if name == trimmed {
			return k, nil
		}
	}
	return 0, fmt.Errorf("formation kind %q is not supported", value)
}

// DamageVector is a unit's damage value at each range bracket.
type DamageVector struct {
	Short   int
	Medium  int
	Long    int
	Extreme int
}

// At returns the damage value for r.
func (d DamageVector) At(r Range) int {
	switch r {
	case RangeShort:
		return d.Short
	case RangeMedium:
		return d.Medium
	case RangeLong:
		return d.Long
	case RangeExtreme:
		return d.Extreme
	default:
		return 0
	}
}

// Unit is one sub-unit of a formation.
type Unit struct {
	Name           string
	Skill          int
	Armor          int
	CurrentArmor   int
	Damage         DamageVector
	TargetingCrits int
	DamageCrits    int
	ElementIDs     []int
}

// Destroyed reports whether the unit has no armor left.
func (u *Unit) Destroyed() bool {
	return u.CurrentArmor <= 0
}

// Crippled reports whether the unit is destroyed or below half armor.
func (u *Unit) Crippled() bool {
	return u.Destroyed() || u.CurrentArmor*2 < u.Armor
}

// Formation is a group of units that acts as one combat participant.
type Formation struct {
	ID           int
	PlayerID     int
	Name         string
	Kind         FormationKind
	Tactics      int
	Skill        int
	Morale       int
	MoraleStatus MoraleStatus
	Size         int
	Jump         int
	Movement     int
	Preferred    EngagementControl
	DeployRound  int
	Units        []*Unit

	Deployed bool
	Done     bool

	// Per-round state, reset at the end of every round.
	JumpUsed           int
	TargetMoveModifier int
	HighStressEpisode  bool
	ManeuverSucceeded  bool
	Stance             EngagementControl
	TargetID           int

	memory map[string]EngagementRecord
}

// Unit returns the unit at index.
func (f *Formation) Unit(index int) (*Unit, bool) {
	if index < 0 || index >= len(f.Units) {
		return nil, false
	}
	return f.Units[index], true
}

// SurvivingUnits returns the indexes of units that still have armor.
func (f *Formation) SurvivingUnits() []int {
	var alive []int
	for i, unit := range f.Units {
		if !unit.Destroyed() {
			alive = append(alive, i)
		}
	}
	return alive
}

// Destroyed reports whether every unit is destroyed.
func (f *Formation) Destroyed() bool {
	return len(f.SurvivingUnits()) == 0
}

// Crippled reports whether at least half the units are crippled or destroyed.
func (f *Formation) Crippled() bool {
	if len(f.Units) == 0 {
		return false
	}
	crippled := 0
	for _, unit := range f.Units {
		if unit.Crippled() {
			crippled++
		}
	}
	return crippled*2 >= len(f.Units)
}

// Armor returns the summed current armor of all units.
func (f *Formation) Armor() int {
	total := 0
	for _, unit := range f.Units {
		total += unit.CurrentArmor
	}
	return total
}

// MaxArmor returns the summed starting armor of all units.
func (f *Formation) MaxArmor() int {
	total := 0
	for _, unit := range f.Units {
		total += unit.Armor
	}
	return total
}

// RecordEngagement remembers an engagement outcome against its target.
func (f *Formation) RecordEngagement(record EngagementRecord) {
	if f.memory == nil {
		f.memory = make(map[string]EngagementRecord)
	}
	f.memory[engagementKey(record.TargetID)] = record
}

// Engagement returns the remembered engagement outcome against targetID.
func (f *Formation) Engagement(targetID int) (EngagementRecord, bool) {
	record, ok := f.memory[engagementKey(targetID)]
	return record, ok
}

// ResetRound clears per-round state.
func (f *Formation) ResetRound() {
	f.JumpUsed = 0
	f.TargetMoveModifier = 0
	f.HighStressEpisode = false
	f.ManeuverSucceeded = false
	f.Stance = EngagementNone
	f.TargetID = 0
	f.memory = nil
}

func engagementKey(targetID int) string {
	return fmt.Sprintf("engagement.%d", targetID)
}
