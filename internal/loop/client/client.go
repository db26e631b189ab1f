// Package client drives one terminal session: it reads raw key bytes,
// ticks the game at a fixed frame rate and renders frames as ANSI output.
package client

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/orbit/internal/draw"
	"github.com/tomz197/orbit/internal/input"
	"github.com/tomz197/orbit/internal/loop/config"
)

// Fallback terminal size when the size query fails.
const (
	fallbackCols = 80
	fallbackRows = 24
)

// Options configures a client.
type Options struct {
	Settings     config.Settings
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	HoldDuration time.Duration
	SpeedVectors bool
}

// Client renders a Session to an ANSI terminal.
type Client struct {
	*Session
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	writer   io.Writer
	stream   *input.Stream
	termSize draw.TermSizeFunc
}

// New creates a client reading keys from r and writing frames to w.
func New(r io.Reader, w io.Writer, opts Options) (*Client, error) {
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}

	sess, err := NewSession(SessionOptions{
		Settings:     opts.Settings,
		Logger:       opts.Logger,
		HoldDuration: opts.HoldDuration,
		SpeedVectors: opts.SpeedVectors,
	})
	if err != nil {
		return nil, err
	}

	cols, rows, err := termSize()
	if err != nil {
		cols, rows = fallbackCols, fallbackRows
	}

	return &Client{
		Session:  sess,
		canvas:   draw.NewScaledCanvas(cols, rows, config.CanvasWidth, config.CanvasHeight),
		cw:       draw.NewChunkWriter(w),
		writer:   w,
		stream:   input.StartStream(r, sess.Tracker()),
		termSize: termSize,
	}, nil
}

// Run renders frames until the player quits, the input closes or ctx is
// cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.Close()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for {
		running, err := c.step(time.Now())
		if err != nil {
			return err
		}
		if !running {
			break
		}
		select {
		case <-ctx.Done():
			draw.ClearScreen(c.writer)
			return nil
		case <-ticker.C:
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// step processes pending input and renders one frame. It returns false when
// the session should end.
func (c *Client) step(now time.Time) (bool, error) {
	keys, ok := c.stream.Read(now)
	if !ok {
		c.logger.Debug("input closed")
		return false, nil
	}
	return c.frame(keys, now)
}

func (c *Client) frame(keys input.Keys, now time.Time) (bool, error) {
	if !c.Advance(keys, now) {
		return false, nil
	}
	c.updateScreen()
	return true, c.drawFrame(now)
}

// updateScreen follows terminal resizes.
func (c *Client) updateScreen() {
	cols, rows, err := c.termSize()
	if err != nil {
		return
	}
	c.canvas.Resize(cols, rows)
}
