package render

import (
	"fmt"
	"strings"

	"github.com/hailam/microchess/internal/board"
)

// glyphPaths holds the outline of each piece type on a 45x45 canvas.
var glyphPaths = [6][]string{
	board.Pawn: {
		"M 16.5 15 A 6 6 0 1 0 28.5 15 A 6 6 0 1 0 16.5 15 Z",
		"M 13 38 L 32 38 L 27 22 L 18 22 Z",
	},
	board.Knight: {
		"M 14 38 L 32 38 L 30 12 L 22 8 L 12 20 L 16 24 L 22 20 L 18 30 Z",
	},
	board.Bishop: {
		"M 12 38 L 33 38 L 29 32 L 16 32 Z",
		"M 22.5 8 L 30 22 L 26 31 L 19 31 L 15 22 Z",
	},
	board.Rook: {
		"M 11 38 L 34 38 L 34 34 L 30 34 L 29 18 L 33 18 L 33 10 L 29 10 L 29 13 " +
			"L 25 13 L 25 10 L 20 10 L 20 13 L 16 13 L 16 10 L 12 10 L 12 18 L 16 18 L 15 34 L 11 34 Z",
	},
	board.Queen: {
		"M 11 38 L 34 38 L 36 14 L 29 24 L 26 10 L 22.5 22 L 19 10 L 16 24 L 9 14 Z",
	},
	board.King: {
		"M 21 6 L 24 6 L 24 10 L 28 10 L 28 13 L 24 13 L 24 17 L 21 17 L 21 13 L 17 13 L 17 10 L 21 10 Z",
		"M 11 38 L 34 38 L 32 24 L 26 19 L 19 19 L 13 24 Z",
	},
}

// glyphSVG returns the SVG document for a piece.
func glyphSVG(p board.Piece) string {
	fill, stroke := "#f8f8f8", "#101010"
	if p.Color() == board.Black {
		fill, stroke = "#202020", "#e0e0e0"
	}

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">`)
	for _, d := range glyphPaths[p.Type()] {
		fmt.Fprintf(&sb, `<path d="%s" fill="%s" stroke="%s" stroke-width="1.5" stroke-linejoin="round"/>`, d, fill, stroke)
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}
