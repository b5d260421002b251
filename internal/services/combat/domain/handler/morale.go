package handler

import (
	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/domain/tohit"
)

// WithdrawTarget is the 2d6 total a withdrawal must meet.
const WithdrawTarget = 11

type moraleHandler struct {
	base
	action action.MoraleCheck
}

func (h *moraleHandler) Action() action.Action { return h.action }

func (h *moraleHandler) Handle(env Env) {
	defer h.finish()
	f, ok := env.State.Formation(h.action.Formation)
	if !ok {
		return
	}

	env.report(report.New(report.MsgMoraleCheck, f.Name, f.MoraleStatus.String()))
	toHit := tohit.MoraleCheck(f)
	env.report(report.New(report.MsgMoraleToHit, toHit.Desc()).Indented(1))
	roll := env.Dice.Roll2D6().Total
	env.report(report.New(report.MsgMoraleRoll, roll).Indented(1))

	if toHit.Succeeds(roll) {
		env.report(report.New(report.MsgMoralePassed, f.Name, f.MoraleStatus.String()).Indented(1))
		return
	}
	previous := f.MoraleStatus
	f.MoraleStatus = previous.Worsen()
	env.report(report.New(report.MsgMoraleFailed, f.Name, previous.String(), f.MoraleStatus.String()).Indented(1))
}

type nerveHandler struct {
	base
	action action.RecoveringNerve
}

func (h *nerveHandler) Action() action.Action { return h.action }

func (h *nerveHandler) Handle(env Env) {
	defer h.finish()
	f, ok := env.State.Formation(h.action.Formation)
	if !ok || f.MoraleStatus.IsBest() {
		return
	}

	env.report(report.New(report.MsgNerveAttempt, f.Name, f.MoraleStatus.String()))
	toHit := tohit.RecoveringNerve(env.State, h.action)
	env.report(report.New(report.MsgNerveToHit, toHit.Desc()).Indented(1))
	roll := env.Dice.Roll2D6().Total
	env.report(report.New(report.MsgNerveRoll, roll).Indented(1))

	if roll < toHit.Value() {
		previous := f.MoraleStatus
		f.MoraleStatus = previous.Improve()
		env.report(report.New(report.MsgNerveRecovered, f.Name, previous.String(), f.MoraleStatus.String()).Indented(1))
		return
	}
	env.report(report.New(report.MsgNerveFailed, f.Name).Indented(1))
}

type withdrawHandler struct {
	base
	action action.Withdraw
}

func (h *withdrawHandler) Action() action.Action { return h.action }

func (h *withdrawHandler) Handle(env Env) {
	defer h.finish()
	f, ok := env.State.Formation(h.action.Formation)
	if !ok {
		return
	}

	env.report(report.New(report.MsgWithdrawAttempt, f.Name))
	toHit := tohit.Withdraw(env.State, f)
	env.report(report.New(report.MsgWithdrawToHit, toHit.Desc()).Indented(1).Private())
	roll := env.Dice.Roll2D6().Total
	env.report(report.New(report.MsgWithdrawRoll, roll, WithdrawTarget).Indented(1))
	if roll < WithdrawTarget {
		env.report(report.New(report.MsgWithdrawFailed, f.Name).Indented(1))
		return
	}

	for _, unit := range f.Units {
		for _, id := range unit.ElementIDs {
			element, ok := env.State.Element(id)
			if !ok || element.Removed() {
				continue
			}
			element.Deployed = false
			element.Removal = battle.RemovalInRetreat
			env.removal().RemoveElement(element, battle.RemovalInRetreat)
		}
	}
	f.Deployed = false
	env.State.RemoveFormation(f.ID, battle.OutcomeWithdrawn)
	env.report(report.New(report.MsgWithdrawSuccess, f.Name).Indented(1))
}
