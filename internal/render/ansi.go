package render

import (
	"strconv"

	"github.com/tomz197/orbit/internal/draw"
)

const colorReset = "\033[0m"

// ANSISink writes HUD text as ANSI sequences into a ChunkWriter.
type ANSISink struct {
	W *draw.ChunkWriter
}

// Text implements TextSink.
func (a ANSISink) Text(col, row int, s string, tone Tone) {
	if col < 1 || row < 1 {
		return
	}
	idx := paletteIndex(tone)
	if idx < 0 {
		a.W.WriteAt(col, row, s)
		return
	}
	a.W.WriteAt(col, row, "\033[38;5;"+strconv.Itoa(idx)+"m"+s+colorReset)
}

var _ TextSink = ANSISink{}
