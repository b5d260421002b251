// Package autoresolve parses auto-resolve command flags and resolves a
// scenario file from the command line.
package autoresolve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	entrypoint "github.com/megamek/acar/internal/platform/cmd"
	"github.com/megamek/acar/internal/platform/config"
	"github.com/megamek/acar/internal/services/combat/render"
	"github.com/megamek/acar/internal/services/combat/resolve"
	"github.com/megamek/acar/internal/services/combat/scenario"
	combatsqlite "github.com/megamek/acar/internal/services/combat/storage/sqlite"
)

const seedEnv = "ACAR_SEED"

// Config holds auto-resolve command configuration.
type Config struct {
	Scenario  string        `env:"ACAR_SCENARIO_FILE"`
	Seed      int64         `env:"ACAR_SEED"`
	HasSeed   bool
	MaxRounds int           `env:"ACAR_MAX_ROUNDS"`
	Locale    string        `env:"ACAR_LOCALE"        envDefault:"en-US"`
	Private   bool          `env:"ACAR_SHOW_PRIVATE"`
	Runs      int           `env:"ACAR_RUNS"          envDefault:"1"`
	Parallel  int           `env:"ACAR_PARALLEL"`
	DBPath    string        `env:"ACAR_DB_PATH"`
	Verbose   bool          `env:"ACAR_VERBOSE"`
	Timeout   time.Duration `env:"ACAR_TIMEOUT"       envDefault:"1m"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.HasSeed = config.IsSet(seedEnv)

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed (overrides the scenario seed)")
	fs.IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "round limit (overrides the scenario limit)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "report locale")
	fs.BoolVar(&cfg.Private, "private", cfg.Private, "include private report entries")
	fs.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of battles; more than one runs a batch")
	fs.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "concurrent battles in a batch (0 uses all CPUs)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "sqlite file to store the battle in (empty disables storage)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall resolution timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.HasSeed = true
		}
	})
	return cfg, nil
}

// Run resolves the configured scenario and writes the report log to out.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	sc, err := scenario.LoadFile(cfg.Scenario)
	if err != nil {
		return err
	}

	opts := []resolve.Option{}
	if cfg.Verbose {
		opts = append(opts, resolve.WithLogger(log.New(errOut, "", 0)))
	}
	if cfg.Runs > 1 {
		return runBatch(ctx, resolve.New(opts...), sc, cfg, out)
	}

	if cfg.DBPath != "" {
		store, err := combatsqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open battle store: %w", err)
		}
		defer store.Close()
		opts = append(opts, resolve.WithStore(store))
	}
	outcome, err := resolve.New(opts...).Resolve(ctx, sc, resolve.Options{
		Seed:      cfg.Seed,
		HasSeed:   cfg.HasSeed,
		MaxRounds: cfg.MaxRounds,
		Persist:   cfg.DBPath != "",
	})
	if err != nil {
		return err
	}

	var renderOpts []render.Option
	if cfg.Private {
		renderOpts = append(renderOpts, render.WithPrivate())
	}
	renderer, err := render.New(cfg.Locale, renderOpts...)
	if err != nil {
		return err
	}
	if err := renderer.Write(out, outcome.Reports); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(errOut, "seed %d, %d rounds\n", outcome.Seed, outcome.Rounds)
	if outcome.BattleID != "" {
		fmt.Fprintf(errOut, "stored battle %s\n", outcome.BattleID)
	}
	return nil
}

func runBatch(ctx context.Context, resolver *resolve.Resolver, sc *scenario.Scenario, cfg Config, out io.Writer) error {
	baseSeed := cfg.Seed
	if !cfg.HasSeed && sc.HasSeed {
		baseSeed = sc.Seed
	}
	summary, err := resolver.RunBatch(ctx, sc, resolve.BatchOptions{
		Runs:      cfg.Runs,
		Parallel:  cfg.Parallel,
		BaseSeed:  baseSeed,
		MaxRounds: cfg.MaxRounds,
	})
	if err != nil {
		return err
	}
	writeSummary(out, summary, baseSeed)
	return nil
}

func writeSummary(out io.Writer, s resolve.BatchSummary, baseSeed int64) {
	fmt.Fprintf(out, "%s: %d runs from seed %d\n", s.Scenario, len(s.Runs), baseSeed)
	for _, team := range s.Teams() {
		fmt.Fprintf(out, "  team %d: %d wins (%.1f%%)\n", team, s.Wins[team], 100*s.WinRate(team))
	}
	fmt.Fprintf(out, "  draws: %d\n", s.Draws)
	fmt.Fprintf(out, "  mean rounds: %.2f\n", s.MeanRounds)
}
