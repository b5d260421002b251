package resolve

import (
	"context"
	"errors"
	"runtime"
	"sort"

	apperrors "github.com/megamek/acar/internal/platform/errors"
	"github.com/megamek/acar/internal/services/combat/scenario"
	"golang.org/x/sync/errgroup"
)

// MaxBatchRuns bounds one Monte Carlo batch.
const MaxBatchRuns = 100000

// BatchOptions tunes a Monte Carlo batch.
type BatchOptions struct {
	Runs int
	// Parallel caps concurrent battles; zero means GOMAXPROCS.
	Parallel int
	// BaseSeed seeds run i with BaseSeed+i.
	BaseSeed  int64
	MaxRounds int
}

// RunResult is one battle of a batch.
type RunResult struct {
	Seed        int64
	Rounds      int
	Draw        bool
	WinningTeam int
}

// BatchSummary aggregates a batch.
type BatchSummary struct {
	Scenario string
	Runs     []RunResult
	// Wins counts victories per team.
	Wins       map[int]int
	Draws      int
	MeanRounds float64
}

// WinRate returns the share of runs team won.
func (s BatchSummary) WinRate(team int) float64 {
	if len(s.Runs) == 0 {
		return 0
	}
	return float64(s.Wins[team]) / float64(len(s.Runs))
}

// Teams returns the teams with at least one win, ascending.
func (s BatchSummary) Teams() []int {
	teams := make([]int, 0, len(s.Wins))
	for team := range s.Wins {
		teams = append(teams, team)
	}
	sort.Ints(teams)
	return teams
}

// RunBatch resolves sc once per seed. Battles run concurrently but each one
// owns its state and dice. Batch outcomes are not persisted.
func (r *Resolver) RunBatch(ctx context.Context, sc *scenario.Scenario, opts BatchOptions) (BatchSummary, error) {
	if sc == nil {
		return BatchSummary{}, apperrors.New(apperrors.CodeScenarioMissing, "scenario is required")
	}
	if opts.Runs <= 0 || opts.Runs > MaxBatchRuns {
		return BatchSummary{}, apperrors.New(apperrors.CodeBatchInvalid, "batch runs must be between 1 and 100000")
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	runs := make([]RunResult, opts.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range opts.Runs {
		seed := opts.BaseSeed + int64(i)
		g.Go(func() error {
			outcome, err := r.Resolve(gctx, sc, Options{Seed: seed, HasSeed: true, MaxRounds: opts.MaxRounds})
			if err != nil {
				return err
			}
			runs[i] = RunResult{
				Seed:        seed,
				Rounds:      outcome.Rounds,
				Draw:        outcome.Result.Draw,
				WinningTeam: outcome.Result.WinningTeam,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return BatchSummary{}, apperrors.Wrap(apperrors.CodeResolutionCanceled, "batch canceled", ctx.Err())
		}
		return BatchSummary{}, err
	}

	summary := BatchSummary{Scenario: sc.Name, Runs: runs, Wins: map[int]int{}}
	totalRounds := 0
	for _, run := range runs {
		totalRounds += run.Rounds
		if run.Draw {
			summary.Draws++
			continue
		}
		summary.Wins[run.WinningTeam]++
	}
	summary.MeanRounds = float64(totalRounds) / float64(len(runs))
	r.logger.Printf("batch %q: %d runs, %d draws, mean %.1f rounds", sc.Name, len(runs), summary.Draws, summary.MeanRounds)
	return summary, nil
}
