// Package manager runs the round and phase loop of an auto-resolved battle.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/megamek/acar/internal/core/dice"
	"github.com/megamek/acar/internal/services/combat/domain/action"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/handler"
	"github.com/megamek/acar/internal/services/combat/domain/initiative"
	"github.com/megamek/acar/internal/services/combat/domain/planner"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/domain/victory"
)

// DefaultMaxRounds bounds a battle that never reaches a victory.
const DefaultMaxRounds = 100

// PhaseObserver is told about every phase transition.
type PhaseObserver interface {
	PhaseStarted(round int, phase battle.Phase)
}

// Deps are the collaborators a manager needs.
type Deps struct {
	Dice    dice.Roller
	Planner planner.Planner
	Victory victory.Evaluator
	Reports report.Sink
	Removal handler.RemovalHandler
}

// Config tunes a manager.
type Config struct {
	Name      string
	MaxRounds int
	Logger    *log.Logger
	Observer  PhaseObserver
}

// Manager owns one battle's resolution.
type Manager struct {
	name      string
	state     *battle.State
	deps      Deps
	maxRounds int
	logger    *log.Logger
	observer  PhaseObserver

	phase     battle.Phase
	queue     action.Queue
	processor handler.Processor
	pending   report.Buffer
	result    victory.Result
}

// New returns a manager positioned at the starting-scenario phase.
func New(state *battle.State, deps Deps, cfg Config) (*Manager, error) {
	if state == nil {
		return nil, errors.New("battle state is required")
	}
	if deps.Dice == nil {
		return nil, errors.New("dice roller is required")
	}
	if deps.Planner == nil {
		return nil, errors.New("planner is required")
	}
	if deps.Victory == nil {
		deps.Victory = victory.LastTeamStanding{}
	}
	if deps.Reports == nil {
		deps.Reports = report.Discard{}
	}
	if deps.Removal == nil {
		deps.Removal = handler.NopRemoval{}
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		name:      cfg.Name,
		state:     state,
		deps:      deps,
		maxRounds: maxRounds,
		logger:    logger,
		observer:  cfg.Observer,
		phase:     battle.PhaseStartingScenario,
	}, nil
}

// Phase returns the current phase.
func (m *Manager) Phase() battle.Phase {
	return m.phase
}

// State returns the battle state.
func (m *Manager) State() *battle.State {
	return m.state
}

// Result returns the victory result once the battle is over.
func (m *Manager) Result() victory.Result {
	return m.result
}

// Run resolves rounds until victory. Cancellation is honored between rounds.
func (m *Manager) Run(ctx context.Context) (victory.Result, error) {
	if m.phase == battle.PhaseStartingScenario {
		m.enter(battle.PhaseStartingScenario)
		m.pending.Add(report.New(report.MsgBattleStart, m.name))
		m.pending.FlushTo(m.deps.Reports)
	}
	for m.phase != battle.PhaseVictory {
		if err := ctx.Err(); err != nil {
			return victory.Result{}, err
		}
		if err := m.runRound(); err != nil {
			return victory.Result{}, err
		}
	}
	return m.result, nil
}

func (m *Manager) runRound() error {
	phase := battle.PhaseInitiative
	for {
		m.enter(phase)
		m.prepare(phase)
		if phase.HasTurns() {
			m.takeTurns(phase)
		}
		next, err := m.finish(phase)
		if err != nil {
			return err
		}
		m.pending.FlushTo(m.deps.Reports)
		switch next {
		case battle.PhaseVictory:
			m.enter(battle.PhaseVictory)
			m.pending.Add(m.result.Reports...)
			m.pending.FlushTo(m.deps.Reports)
			return nil
		case battle.PhaseInitiative:
			return nil
		}
		phase = next
	}
}

func (m *Manager) enter(phase battle.Phase) {
	m.phase = phase
	if m.observer != nil {
		m.observer.PhaseStarted(m.state.Round(), phase)
	}
}

func (m *Manager) prepare(phase battle.Phase) {
	switch phase {
	case battle.PhaseInitiative:
		round := m.state.NextRound()
		m.logger.Printf("battle %q round %d", m.name, round)
		m.pending.Add(report.New(report.MsgRoundStart, round))
		initiative.Roll(m.state, m.deps.Dice, &m.pending)
	default:
		m.pending.Add(report.New(report.MsgPhaseStart, phase.String()))
	}
}

func (m *Manager) takeTurns(phase battle.Phase) {
	for _, turn := range initiative.TurnOrder(m.state, phase) {
		f := m.nextFormation(turn.PlayerID, phase)
		if f == nil {
			continue
		}
		m.apply(f, m.deps.Planner.Decide(m.state, phase, f))
		f.Done = true
	}
}

func (m *Manager) nextFormation(playerID int, phase battle.Phase) *battle.Formation {
	for _, f := range m.state.Formations() {
		if f.PlayerID == playerID && initiative.Eligible(m.state, f, phase) {
			return f
		}
	}
	return nil
}

func (m *Manager) apply(f *battle.Formation, d planner.Decision) {
	if d.Deploy && !f.Deployed {
		f.Deployed = true
		for _, unit := range f.Units {
			for _, id := range unit.ElementIDs {
				if e, ok := m.state.Element(id); ok {
					e.Deployed = true
				}
			}
		}
		m.pending.Add(report.New(report.MsgDeploy, f.Name).Indented(1))
	}
	if d.Movement != nil {
		f.JumpUsed = d.Movement.JumpUsed
		f.TargetMoveModifier = d.Movement.TargetMoveModifier
		m.pending.Add(report.New(report.MsgMove, f.Name, f.JumpUsed, f.TargetMoveModifier).Indented(1))
	}
	if d.TargetID != 0 && d.TargetID != f.TargetID {
		if target, ok := m.state.Formation(d.TargetID); ok {
			f.TargetID = d.TargetID
			m.pending.Add(report.New(report.MsgTarget, f.Name, target.Name).Indented(1))
		}
	}
	for _, a := range d.Actions {
		if err := m.queue.Submit(a); err != nil {
			m.logger.Printf("battle %q: formation %d: %v", m.name, f.ID, err)
			m.pending.Add(report.New(report.MsgActionRefused, f.Name, a.Kind().String()).Indented(1).Private())
		}
	}
}

func (m *Manager) finish(phase battle.Phase) (battle.Phase, error) {
	defer m.clearDone()
	switch phase {
	case battle.PhaseInitiative:
		if m.hasDeployable() {
			return battle.PhaseDeployment, nil
		}
		return battle.PhaseSBFDetection, nil
	case battle.PhaseDeployment:
		return battle.PhaseSBFDetection, nil
	case battle.PhaseSBFDetection:
		return battle.PhaseMovement, nil
	case battle.PhaseMovement:
		m.process(phase)
		return battle.PhaseFiring, nil
	case battle.PhaseFiring:
		m.process(phase)
		return battle.PhaseEnd, nil
	case battle.PhaseEnd:
		m.process(phase)
		return m.endRound()
	default:
		return phase, fmt.Errorf("phase %s cannot end a round step", phase)
	}
}

func (m *Manager) process(phase battle.Phase) {
	m.processor.Process(handler.Env{
		State:   m.state,
		Phase:   phase,
		Queue:   &m.queue,
		Dice:    m.deps.Dice,
		Reports: &m.pending,
		Removal: m.deps.Removal,
	})
}

func (m *Manager) endRound() (battle.Phase, error) {
	for _, f := range m.state.Formations() {
		f.ResetRound()
	}
	m.queue.ResetRound()

	result, err := m.deps.Victory.Evaluate(m.state)
	if err != nil {
		return battle.PhaseEnd, fmt.Errorf("victory check: %w", err)
	}
	if !result.Victory && m.state.Round() >= m.maxRounds {
		result = victory.Draw(m.state)
		result.Reports = append([]report.Entry{report.New(report.MsgRoundLimit, m.maxRounds)}, result.Reports...)
	}
	if result.Victory {
		m.result = result
		m.logger.Printf("battle %q over after %d rounds (team %d, draw %v)", m.name, m.state.Round(), result.WinningTeam, result.Draw)
		return battle.PhaseVictory, nil
	}
	return battle.PhaseInitiative, nil
}

func (m *Manager) hasDeployable() bool {
	for _, f := range m.state.Formations() {
		if initiative.Eligible(m.state, f, battle.PhaseDeployment) {
			return true
		}
	}
	return false
}

func (m *Manager) clearDone() {
	for _, f := range m.state.Formations() {
		f.Done = false
	}
}
