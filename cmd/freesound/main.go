// Command freesound queries the Freesound API from the shell and prints the
// results as JSON. Credentials and tunables come from FREESOUND_* variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adamwoolhether/freesound/client"
	"github.com/adamwoolhether/freesound/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	c, err := client.Build(cfg.Options(log)...)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}
	defer c.Close()

	return newRootCmd(c).ExecuteContext(ctx)
}
