// Package action defines the declared intents formations submit during a
// round. Actions are plain values; handlers resolve them.
package action

import (
	"fmt"

	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

// Kind identifies an action variant.
type Kind int

const (
	KindAttack Kind = iota + 1
	KindEngagementControl
	KindMoraleCheck
	KindRecoveringNerve
	KindWithdraw
)

func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindEngagementControl:
		return "engagement control"
	case KindMoraleCheck:
		return "morale check"
	case KindRecoveringNerve:
		return "recovering nerve"
	case KindWithdraw:
		return "withdraw"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is a declared intent. The set of implementations is closed.
type Action interface {
	Kind() Kind
	// EntityID is the acting formation.
	EntityID() int
	// Illegal reports a structurally invalid action.
	Illegal() bool
	isAction()
}

// Attack fires one unit of a formation at a target formation.
type Attack struct {
	Attacker  int
	UnitIndex int
	Target    int
	Range     battle.Range
}

func (Attack) Kind() Kind      { return KindAttack }
func (a Attack) EntityID() int { return a.Attacker }
func (Attack) isAction()       {}
func (a Attack) Illegal() bool {
	return a.Attacker <= 0 || a.Target <= 0 || a.Attacker == a.Target ||
		a.UnitIndex < 0 || !a.Range.Valid()
}

// EngagementControl attempts to dictate the terms of engagement against a
// target during movement.
type EngagementControl struct {
	Attacker int
	Target   int
	Control  battle.EngagementControl
}

func (EngagementControl) Kind() Kind      { return KindEngagementControl }
func (a EngagementControl) EntityID() int { return a.Attacker }
func (EngagementControl) isAction()       {}
func (a EngagementControl) Illegal() bool {
	return a.Attacker <= 0 || a.Target <= 0 || a.Attacker == a.Target ||
		!a.Control.Valid() || a.Control == battle.EngagementNone
}

// MoraleCheck tests a formation's morale after a high-stress episode.
type MoraleCheck struct {
	Formation int
}

func (MoraleCheck) Kind() Kind      { return KindMoraleCheck }
func (a MoraleCheck) EntityID() int { return a.Formation }
func (MoraleCheck) isAction()       {}
func (a MoraleCheck) Illegal() bool { return a.Formation <= 0 }

// RecoveringNerve attempts to improve a formation's morale by one step.
type RecoveringNerve struct {
	Formation int
}

func (RecoveringNerve) Kind() Kind      { return KindRecoveringNerve }
func (a RecoveringNerve) EntityID() int { return a.Formation }
func (RecoveringNerve) isAction()       {}
func (a RecoveringNerve) Illegal() bool { return a.Formation <= 0 }

// Withdraw attempts to leave the battlefield.
type Withdraw struct {
	Formation int
}

func (Withdraw) Kind() Kind      { return KindWithdraw }
func (a Withdraw) EntityID() int { return a.Formation }
func (Withdraw) isAction()       {}
func (a Withdraw) Illegal() bool { return a.Formation <= 0 }
