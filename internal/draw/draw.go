// Package draw renders onto a half-block terminal canvas.
package draw

// Point represents a 2D coordinate in logical canvas space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Cell is one non-empty terminal cell of a rendered canvas. Col and Row are
// 0-based.
type Cell struct {
	Col, Row int
	Rune     rune
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
