// Package render draws microchess positions and writes game playback
// frames as PNG images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/hailam/microchess/internal/board"
	"github.com/hailam/microchess/internal/storage"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	LastMoveColor color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		LightSquare:   color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:    color.RGBA{181, 136, 99, 255},  // Brown
		LastMoveColor: color.RGBA{205, 210, 106, 255}, // Yellow-green
	}
}

// Renderer draws board frames.
type Renderer struct {
	squareSize  int
	renderScale float64 // glyphs are rasterised at this multiple and scaled down
	theme       Theme
	glyphs      map[board.Piece]*image.RGBA
}

// NewRenderer creates a renderer with square images of squareSize pixels.
func NewRenderer(squareSize int) (*Renderer, error) {
	if squareSize < 8 {
		return nil, fmt.Errorf("square size %d too small", squareSize)
	}
	r := &Renderer{
		squareSize:  squareSize,
		renderScale: 3.0, // Render at 3x resolution for sharp scaling
		theme:       DefaultTheme(),
		glyphs:      make(map[board.Piece]*image.RGBA),
	}
	if err := r.loadGlyphs(); err != nil {
		return nil, err
	}
	return r, nil
}

// loadGlyphs rasterises every piece glyph.
func (r *Renderer) loadGlyphs() error {
	size := int(float64(r.squareSize) * r.renderScale)

	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			piece := board.NewPiece(pt, c)

			icon, err := oksvg.ReadIconStream(strings.NewReader(glyphSVG(piece)))
			if err != nil {
				return fmt.Errorf("parse glyph %s: %w", piece, err)
			}
			icon.SetTarget(0, 0, float64(size), float64(size))

			rgba := image.NewRGBA(image.Rect(0, 0, size, size))
			scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
			raster := rasterx.NewDasher(size, size, scanner)
			icon.Draw(raster, 1.0)

			r.glyphs[piece] = rgba
		}
	}
	return nil
}

// SquareSize returns the edge length of one square in pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// Frame draws pos.
func (r *Renderer) Frame(pos board.State) image.Image {
	return r.frame(pos, board.NoMove)
}

// FrameWithMove draws pos with the from and to squares of last highlighted.
func (r *Renderer) FrameWithMove(pos board.State, last board.Move) image.Image {
	return r.frame(pos, last)
}

func (r *Renderer) frame(pos board.State, last board.Move) image.Image {
	sq := r.squareSize
	img := image.NewRGBA(image.Rect(0, 0, board.Files*sq, board.Ranks*sq))

	from, to := board.NoSquare, board.NoSquare
	if last != board.NoMove {
		from, to = last.From(), last.To()
	}

	for rank := 0; rank < board.Ranks; rank++ {
		for file := 0; file < board.Files; file++ {
			rect := image.Rect(file*sq, rank*sq, (file+1)*sq, (rank+1)*sq)

			c := r.theme.DarkSquare
			if (rank+file)%2 == 0 {
				c = r.theme.LightSquare
			}
			if s := board.NewSquare(rank, file); s == from || s == to {
				c = r.theme.LastMoveColor
			}
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)

			pc, ok := pos.PieceAt(rank, file)
			if !ok {
				continue
			}
			if glyph := r.glyphs[pc]; glyph != nil {
				xdraw.CatmullRom.Scale(img, rect, glyph, glyph.Bounds(), xdraw.Over, nil)
			}
		}
	}
	return img
}

// WriteGame writes one PNG per position of g into dir, named frame_000.png,
// frame_001.png and so on. An empty dir resolves to the frames directory of
// the game. It returns the written paths.
func (r *Renderer) WriteGame(g *storage.GameLog, dir string) ([]string, error) {
	if dir == "" {
		var err error
		if dir, err = storage.GetFramesDir(g.ID); err != nil {
			return nil, err
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(g.FENs))
	for i, fen := range g.FENs {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}

		last := board.NoMove
		if i > 0 && i-1 < len(g.Moves) {
			if m, err := board.ParseMove(g.Moves[i-1]); err == nil {
				last = m
			}
		}

		path := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", i))
		if err := writePNG(path, r.FrameWithMove(pos, last)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
