// Package planner decides what formations do on their turns.
package planner

import (
	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

// Movement is a formation's movement profile for the round.
type Movement struct {
	JumpUsed           int
	TargetMoveModifier int
}

// Decision is what a formation does on one turn.
type Decision struct {
	Deploy   bool
	Movement *Movement
	TargetID int
	Actions  []action.Action
}

// Planner chooses a formation's decision for a turn.
type Planner interface {
	Decide(state *battle.State, phase battle.Phase, f *battle.Formation) Decision
}

// RangeFunc returns the range bracket between two formations.
type RangeFunc func(attacker, target int) battle.Range

// Auto is a straightforward bot: it closes on the weakest enemy, fires every
// unit at it, and falls back when morale collapses.
type Auto struct {
	Range RangeFunc
}

// Decide implements Planner.
func (p Auto) Decide(state *battle.State, phase battle.Phase, f *battle.Formation) Decision {
	switch phase {
	case battle.PhaseDeployment:
		return Decision{Deploy: true}
	case battle.PhaseMovement:
		return p.move(state, f)
	case battle.PhaseFiring:
		return p.fire(state, f)
	case battle.PhaseEnd:
		return p.end(f)
	default:
		return Decision{}
	}
}

func (p Auto) move(state *battle.State, f *battle.Formation) Decision {
	d := Decision{Movement: &Movement{JumpUsed: f.Jump, TargetMoveModifier: f.Movement}}
	target := weakestEnemy(state, f)
	if target == nil {
		return d
	}
	d.TargetID = target.ID
	if control := chooseControl(f, target); control != battle.EngagementNone {
		d.Actions = append(d.Actions, action.EngagementControl{Attacker: f.ID, Target: target.ID, Control: control})
	}
	return d
}

func (p Auto) fire(state *battle.State, f *battle.Formation) Decision {
	if f.MoraleStatus == battle.MoraleRouted {
		return Decision{}
	}
	target, ok := state.Formation(f.TargetID)
	if !ok {
		target = weakestEnemy(state, f)
	}
	if target == nil {
		return Decision{}
	}
	r := battle.RangeMedium
	if p.Range != nil {
		r = p.Range(f.ID, target.ID)
	}
	d := Decision{TargetID: target.ID}
	for _, i := range f.SurvivingUnits() {
		d.Actions = append(d.Actions, action.Attack{Attacker: f.ID, UnitIndex: i, Target: target.ID, Range: r})
	}
	return d
}

func (p Auto) end(f *battle.Formation) Decision {
	var d Decision
	switch {
	case f.HighStressEpisode:
		d.Actions = append(d.Actions, action.MoraleCheck{Formation: f.ID})
	case !f.MoraleStatus.IsBest():
		d.Actions = append(d.Actions, action.RecoveringNerve{Formation: f.ID})
	}
	if f.MoraleStatus == battle.MoraleRouted || f.MoraleStatus == battle.MoraleBroken && f.Crippled() {
		d.Actions = append(d.Actions, action.Withdraw{Formation: f.ID})
	}
	return d
}

func chooseControl(f, target *battle.Formation) battle.EngagementControl {
	switch {
	case f.Preferred != battle.EngagementNone:
		return f.Preferred
	case f.Crippled():
		return battle.EngagementEvade
	case f.Size > target.Size:
		return battle.EngagementOverrun
	default:
		return battle.EngagementNone
	}
}

// weakestEnemy returns the deployed enemy with the least armor, lowest id
// first on ties.
func weakestEnemy(state *battle.State, f *battle.Formation) *battle.Formation {
	var best *battle.Formation
	for _, enemy := range state.Enemies(f) {
		if !enemy.Deployed {
			continue
		}
		if best == nil || enemy.Armor() < best.Armor() || enemy.Armor() == best.Armor() && enemy.ID < best.ID {
			best = enemy
		}
	}
	return best
}
