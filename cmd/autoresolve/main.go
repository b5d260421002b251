// Package main provides a CLI that auto-resolves Lua battle scenarios.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	entrypoint "github.com/megamek/acar/internal/platform/cmd"
	"github.com/megamek/acar/internal/platform/config"

	autoresolvecmd "github.com/megamek/acar/internal/cmd/autoresolve"
)

func main() {
	cfg, err := autoresolvecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAutoResolve, func(ctx context.Context) error {
		return autoresolvecmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
