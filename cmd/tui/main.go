package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/orbit/internal/config"
	"github.com/tomz197/orbit/internal/draw"
	"github.com/tomz197/orbit/internal/loop/client"
	loopconfig "github.com/tomz197/orbit/internal/loop/config"
	"github.com/tomz197/orbit/internal/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
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
	logger, closeLog, err := config.FileLogger("tui")
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	sess, err := client.NewSession(client.SessionOptions{
		Settings:     settings,
		Logger:       logger,
		SpeedVectors: config.GetEnv("ORBIT_SPEED_VECTORS", "") != "",
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	cols, rows := screen.Size()
	canvas := draw.NewScaledCanvas(cols, rows, loopconfig.CanvasWidth, loopconfig.CanvasHeight)
	target := render.TcellTarget{Screen: screen}

	// PollEvent blocks, so events are forwarded from their own goroutine.
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(loopconfig.ClientTargetFrameTime)
	defer ticker.Stop()

	logger.Info("tui started", "cols", cols, "rows", rows)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			handleEvent(ev, sess, canvas, logger)
		case now := <-ticker.C:
			keys := sess.Tracker().State(now)
			if !sess.Advance(keys, now) {
				return nil
			}
			sess.DrawScene(canvas)
			target.Present(canvas)
			sess.DrawHUD(target, canvas.TerminalWidth(), canvas.TerminalHeight(), now)
			target.Show()
		}
	}
}

func handleEvent(ev tcell.Event, sess *client.Session, canvas *draw.Canvas, logger *log.Logger) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		sess.Tracker().FeedKey(ev, time.Now())
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if canvas.Resize(cols, rows) {
			logger.Debug("resized", "cols", cols, "rows", rows)
		}
	}
}
