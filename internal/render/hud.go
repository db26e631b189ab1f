package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/orbit/internal/loop"
)

// Tone selects the colour of a HUD string.
type Tone uint8

const (
	ToneDefault Tone = iota
	ToneAccent
	toneBand // First of the health band tones
)

// BandTone returns the tone for a health band, 0 (critical) to 4 (full).
func BandTone(band int) Tone {
	return toneBand + Tone(max(0, min(band, len(bandPalette)-1)))
}

// bandPalette holds xterm-256 colour indexes for the health bands, from
// critical to full.
var bandPalette = [...]int{196, 202, 220, 148, 44}

// accentPalette is the xterm-256 colour of ToneAccent.
const accentPalette = 51

// paletteIndex returns the xterm-256 colour for t, or -1 for the default.
func paletteIndex(t Tone) int {
	switch {
	case t == ToneAccent:
		return accentPalette
	case t >= toneBand:
		return bandPalette[t-toneBand]
	default:
		return -1
	}
}

// TextSink receives HUD text at 1-based terminal positions.
type TextSink interface {
	Text(col, row int, s string, tone Tone)
}

const healthBarWidth = 20

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

const controlsHint = "A D / < > rotate  SPACE fire  P pause  R restart  0-9 asteroids  Q quit"

// HealthBar renders the planet health as a fixed-width bar.
func HealthBar(health float64) string {
	filled := int(health / 100 * healthBarWidth)
	filled = max(0, min(filled, healthBarWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", healthBarWidth-filled) + "]"
}

// DrawHUD writes the overlay for st onto a cols x rows terminal.
// Text fields use fixed-width formatting so shrinking values leave no
// residue behind.
func DrawHUD(sink TextSink, st loop.Status, cols, rows int, now time.Time) {
	sink.Text(2, 1, fmt.Sprintf("Score: %-8d", st.Score), ToneDefault)

	asteroids := fmt.Sprintf("Asteroids: %3d/%-3d", st.Asteroids, st.Target)
	sink.Text(cols-len(asteroids), 1, asteroids, ToneDefault)

	health := fmt.Sprintf("Planet %s %3.0f%%", HealthBar(st.Health), st.Health)
	sink.Text(2, rows, health, BandTone(st.Band))

	if len(health)+len(controlsHint)+4 <= cols {
		sink.Text(cols-len(controlsHint), rows, controlsHint, ToneDefault)
	}

	centerX, centerY := cols/2, rows/2
	switch {
	case st.GameOver:
		width := 0
		for _, line := range gameOverArt {
			width = max(width, len(line))
		}
		top := centerY - 4
		for i, line := range gameOverArt {
			sink.Text(centerX-width/2, top+i, line, ToneAccent)
		}
		score := fmt.Sprintf("Score: %d", st.Score)
		sink.Text(centerX-len(score)/2, top+len(gameOverArt)+1, score, ToneDefault)
		if now.UnixMilli()/600%2 == 0 {
			prompt := ">>  Press R to Restart  <<"
			sink.Text(centerX-len(prompt)/2, top+len(gameOverArt)+3, prompt, ToneDefault)
		}
	case st.Paused:
		title := "PAUSED"
		sink.Text(centerX-len(title)/2, centerY-1, title, ToneAccent)
		hint := "Press P to resume"
		sink.Text(centerX-len(hint)/2, centerY+1, hint, ToneDefault)
	}
}
