package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/orbit/internal/draw"
)

// TcellTarget presents canvases and HUD text on a tcell screen.
type TcellTarget struct {
	Screen tcell.Screen
}

func toneStyle(t Tone) tcell.Style {
	idx := paletteIndex(t)
	if idx < 0 {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.PaletteColor(idx))
}

// Present clears the screen and copies every lit cell of c onto it.
func (t TcellTarget) Present(c *draw.Canvas) {
	t.Screen.Clear()
	for cell := range c.Cells() {
		t.Screen.SetContent(cell.Col, cell.Row, cell.Rune, nil, tcell.StyleDefault)
	}
}

// Text implements TextSink. col and row are 1-based like the ANSI sink.
func (t TcellTarget) Text(col, row int, s string, tone Tone) {
	if col < 1 || row < 1 {
		return
	}
	style := toneStyle(tone)
	x := col - 1
	for _, r := range s {
		t.Screen.SetContent(x, row-1, r, nil, style)
		x++
	}
}

// Show flushes pending changes to the terminal.
func (t TcellTarget) Show() {
	t.Screen.Show()
}

var _ TextSink = TcellTarget{}
