package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/orbit/internal/config"
	"github.com/tomz197/orbit/internal/loop/client"
	loopconfig "github.com/tomz197/orbit/internal/loop/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	settings, err := loopconfig.FromEnv(loopconfig.Default())
	if err != nil {
		return err
	}
	logger, closeLog, err := config.FileLogger("game")
	if err != nil {
		return err
	}
	defer closeLog()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.New(os.Stdin, os.Stdout, client.Options{
		Settings:     settings,
		Logger:       logger,
		SpeedVectors: config.GetEnv("ORBIT_SPEED_VECTORS", "") != "",
	})
	if err != nil {
		return err
	}
	logger.Info("game started")
	return c.Run(ctx)
}
