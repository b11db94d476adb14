// Command player runs the same engines as broadcaster, plus the
// gin-based HTTP control/status surface (§4.10) and the GUI refresh tick
// (a no-op hook in this headless build — the GUI itself is out of
// scope, but the tick that would drive it is ambient driver-loop
// plumbing and is wired up regardless).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arung-agamani/denpa-radio/internal/auth"
	"github.com/arung-agamani/denpa-radio/internal/config"
	"github.com/arung-agamani/denpa-radio/internal/control"
	"github.com/arung-agamani/denpa-radio/internal/engine"
	"github.com/arung-agamani/denpa-radio/internal/player/ffmpegplayer"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: player <configuration-file>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		slog.Error("player exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	env := config.LoadEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blockPlayer := ffmpegplayer.New(ctx, "128k")
	tsPlayer := ffmpegplayer.New(ctx, "128k")

	d, err := engine.NewDriver(cfgPath, blockPlayer, tsPlayer)
	if err != nil {
		return fmt.Errorf("build driver: %w", err)
	}
	d.OnGUITick(func() {})

	a := auth.New(auth.Config{
		Username:  env.DJUsername,
		Password:  env.DJPassword,
		JWTSecret: env.JWTSecret,
	})

	srv := control.NewServer(":"+env.Port, env.StationName, d, blockPlayer, a)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 2)
	go func() { errCh <- d.Run(ctx) }()
	go func() { errCh <- srv.Start(ctx) }()

	slog.Info("player running", "config", cfgPath, "port", env.Port)
	err = <-errCh
	cancel()
	return err
}
