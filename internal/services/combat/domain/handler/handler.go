// Package handler resolves queued actions against the battle state. Each
// action gets one handler that runs in the phase it cares about and then
// reports itself finished.
package handler

import (
	"fmt"

	"github.com/megamek/acar/internal/core/dice"
	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
)

// RemovalHandler is notified when an element leaves play.
type RemovalHandler interface {
	RemoveElement(element *battle.Element, condition battle.RemovalCondition)
}

// NopRemoval ignores removals.
type NopRemoval struct{}

// RemoveElement does nothing.
func (NopRemoval) RemoveElement(*battle.Element, battle.RemovalCondition) {}

// Env is everything a handler may read or mutate.
type Env struct {
	State   *battle.State
	Phase   battle.Phase
	Queue   *action.Queue
	Dice    dice.Roller
	Reports report.Sink
	Removal RemovalHandler
}

func (e Env) report(entries ...report.Entry) {
	if e.Reports != nil {
		e.Reports.Add(entries...)
	}
}

func (e Env) removal() RemovalHandler {
	if e.Removal == nil {
		return NopRemoval{}
	}
	return e.Removal
}

// Handler resolves one action.
type Handler interface {
	Action() action.Action
	// Cares reports whether the handler wants to run in phase.
	Cares(phase battle.Phase) bool
	Handle(env Env)
	Finished() bool
}

type base struct {
	phase    battle.Phase
	finished bool
}

func (b *base) Cares(phase battle.Phase) bool {
	return !b.finished && phase == b.phase
}

func (b *base) Finished() bool {
	return b.finished
}

func (b *base) finish() {
	b.finished = true
}

// New returns the handler for a.
func New(a action.Action) Handler {
	switch a := a.(type) {
	case action.Attack:
		return &attackHandler{base: base{phase: battle.PhaseFiring}, action: a}
	case action.EngagementControl:
		return &engagementHandler{base: base{phase: battle.PhaseMovement}, action: a}
	case action.MoraleCheck:
		return &moraleHandler{base: base{phase: battle.PhaseEnd}, action: a}
	case action.RecoveringNerve:
		return &nerveHandler{base: base{phase: battle.PhaseEnd}, action: a}
	case action.Withdraw:
		return &withdrawHandler{base: base{phase: battle.PhaseEnd}, action: a}
	default:
		panic(fmt.Sprintf("handler: unsupported action %T", a))
	}
}

// Processor turns queued actions into handlers and runs them.
type Processor struct {
	handlers []Handler
}

// Process drains queue, then runs every unfinished handler that cares about
// env.Phase in submission order. Handlers for later phases are kept.
func (p *Processor) Process(env Env) {
	if env.Queue != nil {
		for _, a := range env.Queue.Drain() {
			p.handlers = append(p.handlers, New(a))
		}
	}
	for _, h := range p.handlers {
		if h.Cares(env.Phase) {
			h.Handle(env)
		}
	}
	kept := p.handlers[:0]
	for _, h := range p.handlers {
		if !h.Finished() {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(p.handlers); i++ {
		p.handlers[i] = nil
	}
	p.handlers = kept
}

// Pending returns the number of unfinished handlers.
func (p *Processor) Pending() int {
	return len(p.handlers)
}
