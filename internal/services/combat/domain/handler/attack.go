package handler

import (
	"math"

	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/domain/tohit"
)

type attackHandler struct {
	base
	action action.Attack
}

func (h *attackHandler) Action() action.Action { return h.action }

func (h *attackHandler) Handle(env Env) {
	defer h.finish()
	a := h.action

	attacker, ok := env.State.Formation(a.Attacker)
	if !ok {
		return
	}
	target, ok := env.State.Formation(a.Target)
	if !ok {
		return
	}
	unit, ok := attacker.Unit(a.UnitIndex)
	if !ok || unit.Destroyed() {
		return
	}
	survivors := target.SurvivingUnits()
	if len(survivors) == 0 {
		return
	}

	env.report(report.New(report.MsgAttackDeclared, attacker.Name, unit.Name, target.Name, a.Range.String()))
	distinct := 1
	if env.Queue != nil {
		distinct = env.Queue.DistinctTargets(a.Attacker)
	}
	toHit := tohit.Attack(env.State, a, distinct)
	if toHit.CannotSucceed() {
		env.report(report.New(report.MsgAttackImpossible, toHit.Desc()).Indented(1))
		return
	}
	env.report(report.New(report.MsgAttackToHit, toHit.Desc()).Indented(1))

	roll := env.Dice.Roll2D6()
	env.report(report.New(report.MsgAttackRoll, roll.Total).Indented(1))
	if !toHit.Succeeds(roll.Total) {
		env.report(report.New(report.MsgAttackMiss).Indented(1))
		return
	}

	victim := target.Units[survivors[env.Dice.Pick(len(survivors))]]
	damage := attackDamage(attacker, unit, target, a.Range)
	applyDamage(env, attacker, unit, target, victim, damage)
}

func attackDamage(attacker *battle.Formation, unit *battle.Unit, target *battle.Formation, r battle.Range) int {
	raw := unit.Damage.At(r)
	if attacker.ManeuverSucceeded {
		raw++
	}
	multiplier := 1.0
	if record, ok := attacker.Engagement(target.ID); ok {
		multiplier = record.DamageMultiplier()
	}
	return int(math.Max(1, float64(raw)*multiplier))
}

func applyDamage(env Env, attacker *battle.Formation, unit *battle.Unit, target *battle.Formation, victim *battle.Unit, damage int) {
	before := victim.CurrentArmor
	after := max(0, before-damage)
	env.report(report.New(report.MsgAttackHit, target.Name, victim.Name, damage, before, after).Indented(1))

	if after*2 <= before {
		target.HighStressEpisode = true
		env.report(report.New(report.MsgHighStress, target.Name).Indented(2))
	}
	victim.CurrentArmor = after
	if target.Crippled() && after > 0 {
		target.HighStressEpisode = true
		env.report(report.New(report.MsgCrippled, target.Name).Indented(2))
	}

	switch {
	case after == 0:
		destroyUnit(env, unit, target, victim)
	case after*2 < victim.Armor:
		criticalHit(env, unit, target, victim)
	}
}

func criticalHit(env Env, unit *battle.Unit, target *battle.Formation, victim *battle.Unit) {
	roll := env.Dice.Roll2D6().Total
	env.report(report.New(report.MsgCriticalRoll, roll).Indented(2))
	switch {
	case roll <= 4:
		env.report(report.New(report.MsgCriticalNone).Indented(3))
	case roll <= 7:
		victim.TargetingCrits++
		env.report(report.New(report.MsgCriticalTargeting, victim.Name).Indented(3))
	case roll <= 9:
		victim.DamageCrits++
		reduceDamage(victim)
		env.report(report.New(report.MsgCriticalDamage, victim.Name).Indented(3))
	case roll <= 11:
		victim.TargetingCrits++
		victim.DamageCrits++
		reduceDamage(victim)
		env.report(report.New(report.MsgCriticalBoth, victim.Name).Indented(3))
	default:
		env.report(report.New(report.MsgCriticalDestroyed, victim.Name).Indented(3))
		victim.CurrentArmor = 0
		destroyUnit(env, unit, target, victim)
	}
}

// reduceDamage lowers every damage bracket by one, never below zero.
func reduceDamage(u *battle.Unit) {
	u.Damage = battle.DamageVector{
		Short:   max(0, u.Damage.Short-1),
		Medium:  max(0, u.Damage.Medium-1),
		Long:    max(0, u.Damage.Long-1),
		Extreme: max(0, u.Damage.Extreme-1),
	}
}

func destroyUnit(env Env, killerUnit *battle.Unit, target *battle.Formation, victim *battle.Unit) {
	killers := liveElements(env.State, killerUnit.ElementIDs)
	victims := liveElements(env.State, victim.ElementIDs)

	var killer, fallen *battle.Element
	if len(killers) > 0 {
		killer = killers[env.Dice.Pick(len(killers))]
	}
	if len(victims) > 0 {
		fallen = victims[env.Dice.Pick(len(victims))]
	}

	switch {
	case killer != nil && fallen != nil:
		env.State.RecordKill(battle.Kill{Round: env.State.Round(), KillerID: killer.ID, VictimID: fallen.ID})
		env.report(report.New(report.MsgUnitDestroyed, victim.Name, target.Name, fallen.Name, killer.Name).Indented(2))
	case fallen != nil:
		env.State.RecordKill(battle.Kill{Round: env.State.Round(), VictimID: fallen.ID})
		env.report(report.New(report.MsgKillUnattributed, victim.Name, target.Name).Indented(2))
	default:
		env.report(report.New(report.MsgKillUnattributed, victim.Name, target.Name).Indented(2))
	}

	for _, element := range victims {
		element.Deployed = false
		element.Removal = battle.RemovalDestroyed
		env.removal().RemoveElement(element, battle.RemovalDestroyed)
	}

	if target.Destroyed() && env.State.RemoveFormation(target.ID, battle.OutcomeDestroyed) {
		env.report(report.New(report.MsgFormationDestroyed, target.Name).Indented(1))
	}
}

func liveElements(state *battle.State, ids []int) []*battle.Element {
	var live []*battle.Element
	for _, id := range ids {
		if e, ok := state.Element(id); ok && !e.Removed() {
			live = append(live, e)
		}
	}
	return live
}
