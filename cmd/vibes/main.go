package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"vibes/internal/di"
	"vibes/internal/structures"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := &structures.CliFlags{}

	flagSet := pflag.NewFlagSet("vibes", pflag.ContinueOnError)
	flagSet.StringVarP(&flags.ConfigPath, "config", "c", "configs/config.yaml", "path to the yaml config file")
	flagSet.BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug logging")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
