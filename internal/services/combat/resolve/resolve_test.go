package resolve

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/megamek/acar/internal/platform/errors"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/scenario"
	"github.com/megamek/acar/internal/services/combat/storage/sqlite"
)

const duelScript = `
local b = Battle.new("Duel")
b:seed(7):max_rounds(15)
b:player{id = 1, name = "Blue", team = 1}
b:player{id = 2, name = "Red", team = 2}
b:formation{id = 1, player = 1, name = "Blue Lance", movement = 1,
  units = {
    {name = "Warhammer", armor = 6, damage = {3, 3, 1}, elements = {11}},
    {name = "Rifleman", armor = 5, damage = {2, 3, 2}, elements = {12}},
  }}
b:formation{id = 2, player = 2, name = "Red Lance", movement = 2, deploy_round = 2,
  units = {
    {name = "Thunderbolt", armor = 6, damage = {3, 3, 1}, elements = {21}},
    {name = "Jenner", armor = 3, damage = {3, 2, 0}, elements = {22}},
  }}
b:default_range("short")
return b
`

func loadDuel(t *testing.T) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.LoadString("duel", duelScript)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return sc
}

func TestResolveIsReproducible(t *testing.T) {
	sc := loadDuel(t)
	r := New()

	first, err := r.Resolve(context.Background(), sc, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := r.Resolve(context.Background(), sc, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first.Seed != 7 || second.Seed != 7 {
		t.Fatalf("seeds = %d %d, want scenario seed 7", first.Seed, second.Seed)
	}
	if !reflect.DeepEqual(first.Reports, second.Reports) {
		t.Fatal("same seed produced different report logs")
	}
	if first.Result.WinningTeam != second.Result.WinningTeam || first.Result.Draw != second.Result.Draw || first.Rounds != second.Rounds {
		t.Fatalf("results differ: %+v vs %+v", first.Result, second.Result)
	}
	if first.Rounds < 1 || first.Rounds > 15 {
		t.Fatalf("rounds = %d", first.Rounds)
	}
	if !first.Result.Victory {
		t.Fatalf("battle did not finish: %+v", first.Result)
	}
	if first.Result.Draw != (first.Result.WinningTeam == 0) {
		t.Fatalf("draw and winning team disagree: %+v", first.Result)
	}
	if first.Reports[0].MessageID != report.MsgBattleStart {
		t.Fatalf("first report = %d, want battle start", first.Reports[0].MessageID)
	}
}

func TestResolveSeedOverride(t *testing.T) {
	sc := loadDuel(t)
	out, err := New().Resolve(context.Background(), sc, Options{Seed: 99, HasSeed: true, MaxRounds: 3})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Seed != 99 {
		t.Fatalf("seed = %d, want 99", out.Seed)
	}
	if out.Rounds > 3 {
		t.Fatalf("rounds = %d, want at most 3", out.Rounds)
	}
}

func TestResolveRecordsRemovals(t *testing.T) {
	sc := loadDuel(t)
	out, err := New().Resolve(context.Background(), sc, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for _, removed := range out.Removed {
		e, ok := out.State.Element(removed.ElementID)
		if !ok {
			t.Fatalf("removed element %d unknown", removed.ElementID)
		}
		if e.Removal != removed.Condition || removed.Condition == battle.RemovalNone {
			t.Fatalf("element %d removal = %v, logged %v", e.ID, e.Removal, removed.Condition)
		}
	}
}

func TestResolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Resolve(ctx, loadDuel(t), Options{})
	if apperrors.GetCode(err) != apperrors.CodeResolutionCanceled {
		t.Fatalf("error = %v, want canceled", err)
	}
}

func TestResolveRejectsInvalidScenario(t *testing.T) {
	sc, err := scenario.LoadString("empty", `return Battle.new("empty")`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if _, err := New().Resolve(context.Background(), sc, Options{}); apperrors.GetCode(err) != apperrors.CodeScenarioInvalid {
		t.Fatalf("error = %v, want scenario invalid", err)
	}
	if _, err := New().Resolve(context.Background(), nil, Options{}); apperrors.GetCode(err) != apperrors.CodeScenarioMissing {
		t.Fatalf("error = %v, want scenario missing", err)
	}
}

func TestResolvePersists(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "battles.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	out, err := New(WithStore(store)).Resolve(context.Background(), loadDuel(t), Options{Persist: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.BattleID == "" {
		t.Fatal("expected battle id")
	}
	stored, err := store.GetBattle(context.Background(), out.BattleID)
	if err != nil {
		t.Fatalf("get battle: %v", err)
	}
	if stored.Seed != out.Seed || stored.Rounds != out.Rounds || stored.WinningTeam != out.Result.WinningTeam {
		t.Fatalf("stored = %+v", stored)
	}
	if len(stored.Reports) != len(out.Reports) {
		t.Fatalf("stored reports = %d, want %d", len(stored.Reports), len(out.Reports))
	}
	if len(stored.Formations) != 2 {
		t.Fatalf("stored formations = %d, want 2", len(stored.Formations))
	}
	entries := Entries(stored.Reports)
	if entries[0].MessageID != report.MsgBattleStart || entries[0].Args[0] != "Duel" {
		t.Fatalf("first entry = %+v", entries[0])
	}
}

func TestRunBatch(t *testing.T) {
	sc := loadDuel(t)
	r := New()

	summary, err := r.RunBatch(context.Background(), sc, BatchOptions{Runs: 24, Parallel: 4, BaseSeed: 1000})
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if len(summary.Runs) != 24 {
		t.Fatalf("runs = %d, want 24", len(summary.Runs))
	}
	wins := 0
	for _, team := range summary.Teams() {
		wins += summary.Wins[team]
	}
	if wins+summary.Draws != 24 {
		t.Fatalf("wins %d + draws %d != 24", wins, summary.Draws)
	}
	for i, run := range summary.Runs {
		if run.Seed != 1000+int64(i) {
			t.Fatalf("run %d seed = %d", i, run.Seed)
		}
	}

	again, err := r.RunBatch(context.Background(), sc, BatchOptions{Runs: 24, Parallel: 2, BaseSeed: 1000})
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if !reflect.DeepEqual(summary.Runs, again.Runs) {
		t.Fatal("batch results depend on parallelism")
	}
}

func TestRunBatchValidation(t *testing.T) {
	sc := loadDuel(t)
	for _, runs := range []int{0, -1, MaxBatchRuns + 1} {
		if _, err := New().RunBatch(context.Background(), sc, BatchOptions{Runs: runs}); apperrors.GetCode(err) != apperrors.CodeBatchInvalid {
			t.Fatalf("runs %d: error = %v, want batch invalid", runs, err)
		}
	}
}

func TestWinRate(t *testing.T) {
	s := BatchSummary{Runs: make([]RunResult, 4), Wins: map[int]int{1: 3}}
	if got := s.WinRate(1); got != 0.75 {
		t.Fatalf("WinRate(1) = %v, want 0.75", got)
	}
	if got := (BatchSummary{}).WinRate(1); got != 0 {
		t.Fatalf("empty WinRate = %v", got)
	}
}
