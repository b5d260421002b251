// Package combat parses combat service flags and launches the service.
package combat

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/megamek/acar/internal/platform/cmd"
	server "github.com/megamek/acar/internal/services/combat/app"
)

// Config holds combat command configuration.
type Config struct {
	Port    int    `env:"ACAR_COMBAT_PORT"    envDefault:"8090"`
	DBPath  string `env:"ACAR_COMBAT_DB_PATH" envDefault:"data/combat.db"`
	Verbose bool   `env:"ACAR_COMBAT_VERBOSE"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The combat gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the battle SQLite database")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log resolution steps")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the combat gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	opts := server.Options{DBPath: cfg.DBPath}
	if cfg.Verbose {
		opts.Logger = log.Default()
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCombat, func(ctx context.Context) error {
		return server.Run(ctx, fmt.Sprintf(":%d", cfg.Port), opts)
	})
}
