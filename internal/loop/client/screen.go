package client

import (
	"time"

	"github.com/tomz197/orbit/internal/render"
)

// drawFrame draws the scene and the HUD and flushes the frame. The canvas
// only emits lit cells, so every frame starts from a cleared terminal.
func (c *Client) drawFrame(now time.Time) error {
	c.cw.WriteString("\033[H\033[2J")

	c.DrawScene(c.canvas)
	if err := c.canvas.Render(c.cw); err != nil {
		return err
	}

	c.DrawHUD(render.ANSISink{W: c.cw}, c.canvas.TerminalWidth(), c.canvas.TerminalHeight(), now)
	return c.cw.Flush()
}
