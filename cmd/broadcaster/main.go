// Command broadcaster runs the block-scheduling and time-signal engines
// against a directive file, with no GUI tick and no HTTP control surface
// — the headless automaton described in SPEC_FULL.md §6.6.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arung-agamani/denpa-radio/internal/engine"
	"github.com/arung-agamani/denpa-radio/internal/player/ffmpegplayer"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: broadcaster <configuration-file>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		slog.Error("broadcaster exited with error", "error", err)
		fmt.Fprintln(os.Stderr, "broadcaster:", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blockPlayer := ffmpegplayer.New(ctx, "128k")
	tsPlayer := ffmpegplayer.New(ctx, "128k")

	d, err := engine.NewDriver(cfgPath, blockPlayer, tsPlayer)
	if err != nil {
		return fmt.Errorf("build driver: %w", err)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("shutdown signal received")
		cancel()
	}()

	slog.Info("broadcaster running", "config", cfgPath)
	return d.Run(ctx)
}
