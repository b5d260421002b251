package handler

import (
	"github.com/megamek/acar/internal/core/check"
	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/domain/tohit"
)

type engagementHandler struct {
	base
	action action.EngagementControl
}

func (h *engagementHandler) Action() action.Action { return h.action }

// Handle resolves an opposed roll: the attacker rolls against its engagement
// target number and the defender against its maneuver target number. The
// attacker wins by meeting its target with a strictly larger margin.
func (h *engagementHandler) Handle(env Env) {
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

	attacker.Stance = a.Control
	env.report(report.New(report.MsgEngagementDeclared, attacker.Name, a.Control.String(), target.Name))

	victory := false
	defer func() {
		attacker.RecordEngagement(battle.EngagementRecord{TargetID: target.ID, Control: a.Control, Victory: victory})
		attacker.ManeuverSucceeded = victory
		if victory {
			env.report(report.New(report.MsgEngagementVictory, attacker.Name, target.Name).Indented(1))
		} else {
			env.report(report.New(report.MsgEngagementDefeat, attacker.Name, target.Name).Indented(1))
		}
	}()

	toHit := tohit.EngagementControl(env.State, a)
	if toHit.CannotSucceed() {
		env.report(report.New(report.MsgEngagementImpossible, toHit.Desc()).Indented(1))
		return
	}
	env.report(report.New(report.MsgEngagementToHit, toHit.Desc()).Indented(1))
	roll := env.Dice.Roll2D6().Total
	env.report(report.New(report.MsgEngagementRoll, roll).Indented(1))
	if !toHit.Succeeds(roll) {
		return
	}

	defense := tohit.Maneuver(target)
	env.report(report.New(report.MsgManeuverToHit, target.Name, defense.Desc()).Indented(1))
	if defense.CannotSucceed() {
		victory = true
		return
	}
	defenseRoll := env.Dice.Roll2D6().Total
	env.report(report.New(report.MsgManeuverRoll, defenseRoll).Indented(1))
	victory = margin(toHit, roll) > margin(defense, defenseRoll)
}

func margin(toHit tohit.ToHit, roll int) int {
	if toHit.Value() == tohit.AutomaticSuccess {
		return tohit.MaxRollable
	}
	return check.Margin(roll, toHit.Value())
}
