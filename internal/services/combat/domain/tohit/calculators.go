package tohit

import (
	"fmt"

	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

// noSupply marks formations cut off from supply. Supply is not tracked yet.
const noSupply = false

// Attack computes the target number for one unit's attack.
// distinctTargets is how many formations the attacker engaged this round.
func Attack(state *battle.State, a action.Attack, distinctTargets int) ToHit {
	if a.Illegal() {
		return New(Impossible, "invalid attack")
	}
	attacker, ok := state.Formation(a.Attacker)
	if !ok {
		return New(Impossible, "attacker not in play")
	}
	target, ok := state.Formation(a.Target)
	if !ok {
		return New(Impossible, "target not in play")
	}
	unit, ok := attacker.Unit(a.UnitIndex)
	if !ok || unit.Destroyed() {
		return New(Impossible, "unit not in play")
	}

	toHit := New(unit.Skill, "skill")
	if unit.TargetingCrits > 0 {
		toHit.Add(unit.TargetingCrits, "targeting damage")
	}
	toHit.Add(skillModifier(unit.Skill), "skill rating")
	toHit.Add(rangeModifier(a.Range), a.Range.String()+" range")
	if target.TargetMoveModifier > 0 {
		toHit.Add(target.TargetMoveModifier, "TMM")
	}
	if attacker.JumpUsed > 0 {
		toHit.Add(attacker.JumpUsed, "attacker JUMP")
	}
	if target.JumpUsed > 0 {
		toHit.Add(attacker.JumpUsed, "target JUMP")
	}
	if m := attackMoraleModifier(target.MoraleStatus); m != 0 {
		toHit.Add(m, "target "+target.MoraleStatus.String())
	}
	switch {
	case distinctTargets <= 1:
	case distinctTargets == 2:
		toHit.Add(1, "secondary target")
	default:
		toHit.Add(Impossible, "too many targets")
	}
	return toHit
}

// EngagementControl computes the attacker's target number for an
// engagement-control attempt.
func EngagementControl(state *battle.State, a action.EngagementControl) ToHit {
	attacker, ok := state.Formation(a.Attacker)
	if !ok {
		return New(Impossible, "attacker not in play")
	}
	target, ok := state.Formation(a.Target)
	if !ok {
		return New(Impossible, "target not in play")
	}
	return Engagement(attacker, target, a.Control)
}

// Engagement computes an engagement-control target number. target may be
// nil, in which case target-dependent modifiers are skipped.
func Engagement(attacker, target *battle.Formation, control battle.EngagementControl) ToHit {
	toHit := New(attacker.Tactics, "tactics")
	switch attacker.Kind {
	case battle.KindInfantry:
		toHit.Add(2, "infantry only")
	case battle.KindVehicle:
		toHit.Add(1, "vehicle only")
	}
	if noSupply {
		toHit.Add(4, "no supply")
	}
	if target != nil {
		switch target.MoraleStatus {
		case battle.MoraleNormal:
		case battle.MoraleShaken:
			toHit.Add(1, "target shaken")
		case battle.MoraleUnsteady:
			toHit.Add(2, "target unsteady")
		case battle.MoraleBroken:
			toHit.Add(3, "target broken")
		case battle.MoraleRouted:
			toHit.Add(AutomaticFail, "target routed")
		default:
			panic(fmt.Sprintf("tohit: morale status %d out of range", int(target.MoraleStatus)))
		}
	}
	switch control {
	case battle.EngagementForced:
		toHit.Add(-3, "forced engagement")
	case battle.EngagementEvade:
		toHit.Add(-3, "evade")
	case battle.EngagementOverrun:
		if target != nil {
			toHit.Add(attacker.Size-target.Size, "overrun")
		}
	}
	if control == battle.EngagementOverrun && target != nil {
		toHit.Add(attacker.Size-target.Size, "size difference")
	}
	return toHit
}

// Maneuver computes a defending formation's maneuver target number.
func Maneuver(f *battle.Formation) ToHit {
	toHit := New(f.Tactics, "tactics")
	if f.Stance == battle.EngagementForced {
		toHit.Add(1, "forced engagement")
	}
	if f.Kind == battle.KindAerospace {
		toHit.Add(2, "aerospace")
	}
	toHit.Add(skillModifier(f.Skill), "skill rating")
	switch f.MoraleStatus {
	case battle.MoraleNormal, battle.MoraleShaken:
	case battle.MoraleUnsteady:
		toHit.Add(1, "unsteady")
	case battle.MoraleBroken:
		toHit.Add(2, "broken")
	case battle.MoraleRouted:
		toHit.Add(2, "routed")
	default:
		panic(fmt.Sprintf("tohit: morale status %d out of range", int(f.MoraleStatus)))
	}
	return toHit
}

// MoraleCheck computes the target number a formation must meet to hold its
// morale.
func MoraleCheck(f *battle.Formation) ToHit {
	toHit := New(f.Morale, "morale")
	toHit.Add(moraleSkillModifier(f.Skill), "skill rating")
	return toHit
}

// RecoveringNerve computes the target number for a recovering-nerve
// attempt. A recovery succeeds when the roll is below the value.
func RecoveringNerve(state *battle.State, a action.RecoveringNerve) ToHit {
	if !a.Illegal() {
		return New(Impossible, "invalid action")
	}
	f, ok := state.Formation(a.Formation)
	if !ok {
		return New(Impossible, "formation not in play")
	}
	return MoraleCheck(f)
}

// Withdraw computes the narrative target number for a withdrawal attempt.
func Withdraw(state *battle.State, f *battle.Formation) ToHit {
	var target *battle.Formation
	if f.TargetID != 0 {
		target, _ = state.Formation(f.TargetID)
	}
	toHit := Engagement(f, target, battle.EngagementNone)
	if f.Crippled() {
		toHit.Add(3, "crippled")
	}
	return toHit
}

func skillModifier(skill int) int {
	switch skill {
	case 7:
		return 4
	case 6:
		return 3
	case 5:
		return 2
	case 4:
		return 1
	case 3:
		return 0
	case 2:
		return -1
	case 1:
		return -2
	case 0:
		return -3
	default:
		return Impossible
	}
}

func moraleSkillModifier(skill int) int {
	if skill < 0 || skill > 7 {
		panic(fmt.Sprintf("tohit: skill %d out of range", skill))
	}
	return skill - 5
}

func rangeModifier(r battle.Range) int {
	switch r {
	case battle.RangeShort:
		return -1
	case battle.RangeMedium:
		return 2
	case battle.RangeLong:
		return 4
	default:
		return Impossible
	}
}

func attackMoraleModifier(status battle.MoraleStatus) int {
	switch status {
	case battle.MoraleNormal:
		return 0
	case battle.MoraleShaken:
		return 1
	case battle.MoraleUnsteady:
		return 2
	case battle.MoraleBroken:
		return 3
	case battle.MoraleRouted:
		return 4
	default:
		panic(fmt.Sprintf("tohit: morale status %d out of range", int(status)))
	}
}
