// Package resolve runs scenarios through the battle manager, traces them and
// optionally persists the outcome.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/megamek/acar/internal/core/dice"
	apperrors "github.com/megamek/acar/internal/platform/errors"
	platformotel "github.com/megamek/acar/internal/platform/otel"
	"github.com/megamek/acar/internal/random"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/manager"
	"github.com/megamek/acar/internal/services/combat/domain/planner"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/domain/victory"
	"github.com/megamek/acar/internal/services/combat/scenario"
	"github.com/megamek/acar/internal/services/combat/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/megamek/acar/internal/services/combat/resolve"

// Options tunes one resolution.
type Options struct {
	// Seed overrides the scenario seed when HasSeed is set.
	Seed    int64
	HasSeed bool
	// MaxRounds overrides the scenario round limit when positive.
	MaxRounds int
	// Persist stores the outcome when the resolver has a store.
	Persist bool
}

// Outcome is a finished battle.
type Outcome struct {
	BattleID string
	Scenario string
	Seed     int64
	Rounds   int
	Result   victory.Result
	Reports  []report.Entry
	State    *battle.State
	Removed  []Removal
}

// Resolver resolves scenarios.
type Resolver struct {
	store  storage.BattleStore
	logger *log.Logger
	tracer trace.Tracer
	roller func(seed int64) dice.Roller
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStore persists outcomes resolved with Options.Persist.
func WithStore(store storage.BattleStore) Option {
	return func(r *Resolver) { r.store = store }
}

// WithLogger sets the step logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRoller replaces the seeded dice source, mainly for tests.
func WithRoller(roller func(seed int64) dice.Roller) Option {
	return func(r *Resolver) {
		if roller != nil {
			r.roller = roller
		}
	}
}

// New returns a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger: log.New(io.Discard, "", 0),
		tracer: platformotel.Tracer(tracerName),
		roller: func(seed int64) dice.Roller { return dice.NewSeeded(seed) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs sc to completion.
func (r *Resolver) Resolve(ctx context.Context, sc *scenario.Scenario, opts Options) (Outcome, error) {
	if sc == nil {
		return Outcome{}, apperrors.New(apperrors.CodeScenarioMissing, "scenario is required")
	}
	seed, err := r.seed(sc, opts)
	if err != nil {
		return Outcome{}, err
	}

	ctx, span := r.tracer.Start(ctx, "battle.resolve", trace.WithAttributes(
		attribute.String("battle.scenario", sc.Name),
		attribute.Int64("battle.seed", seed),
	))
	defer span.End()

	outcome, err := r.resolve(ctx, sc, seed, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}
	span.SetAttributes(
		attribute.Int("battle.rounds", outcome.Rounds),
		attribute.Bool("battle.draw", outcome.Result.Draw),
		attribute.Int("battle.winning_team", outcome.Result.WinningTeam),
	)
	return outcome, nil
}

func (r *Resolver) resolve(ctx context.Context, sc *scenario.Scenario, seed int64, opts Options) (Outcome, error) {
	state, err := sc.Build()
	if err != nil {
		return Outcome{}, err
	}
	evaluator, err := sc.Evaluator()
	if err != nil {
		return Outcome{}, err
	}
	maxRounds := sc.MaxRounds
	if opts.MaxRounds > 0 {
		maxRounds = opts.MaxRounds
	}

	var reports report.Log
	removal := &removalLog{}
	m, err := manager.New(state, manager.Deps{
		Dice:    r.roller(seed),
		Planner: planner.Auto{Range: sc.Range},
		Victory: evaluator,
		Reports: &reports,
		Removal: removal,
	}, manager.Config{
		Name:      sc.Name,
		MaxRounds: maxRounds,
		Logger:    r.logger,
		Observer:  spanObserver{span: trace.SpanFromContext(ctx)},
	})
	if err != nil {
		return Outcome{}, apperrors.Wrap(apperrors.CodeResolutionFailed, "create manager", err)
	}

	r.logger.Printf("resolving %q with seed %d", sc.Name, seed)
	result, err := m.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Outcome{}, apperrors.Wrap(apperrors.CodeResolutionCanceled, "resolution canceled", err)
		}
		return Outcome{}, apperrors.Wrap(apperrors.CodeResolutionFailed, "resolve battle", err)
	}

	outcome := Outcome{
		Scenario: sc.Name,
		Seed:     seed,
		Rounds:   state.Round(),
		Result:   result,
		Reports:  reports.Entries(),
		State:    state,
		Removed:  removal.removed,
	}
	if opts.Persist && r.store != nil {
		id, err := r.store.SaveBattle(ctx, Record(outcome))
		if err != nil {
			return Outcome{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "save battle", err)
		}
		outcome.BattleID = id
	}
	r.logger.Printf("resolved %q in %d rounds: %s", sc.Name, outcome.Rounds, describe(result))
	return outcome, nil
}

func (r *Resolver) seed(sc *scenario.Scenario, opts Options) (int64, error) {
	switch {
	case opts.HasSeed:
		return opts.Seed, nil
	case sc.HasSeed:
		return sc.Seed, nil
	}
	seed, err := random.NewSeed()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeResolutionFailed, "generate seed", err)
	}
	return seed, nil
}

func describe(result victory.Result) string {
	if result.Draw {
		return "draw"
	}
	return fmt.Sprintf("team %d wins", result.WinningTeam)
}

// Removal is an element that left play.
type Removal struct {
	ElementID   int
	FormationID int
	Condition   battle.RemovalCondition
}

type removalLog struct {
	removed []Removal
}

func (l *removalLog) RemoveElement(e *battle.Element, condition battle.RemovalCondition) {
	l.removed = append(l.removed, Removal{ElementID: e.ID, FormationID: e.FormationID, Condition: condition})
}

type spanObserver struct {
	span trace.Span
}

func (o spanObserver) PhaseStarted(round int, phase battle.Phase) {
	o.span.AddEvent("phase", trace.WithAttributes(
		attribute.Int("battle.round", round),
		attribute.String("battle.phase", phase.String()),
	))
}
