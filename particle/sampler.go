package particle

import (
	"fmt"

	"github.com/DaniruKun/colortrack/imgproc"
)

// Grid is a row-major view of a frame's colors.
type Grid struct {
	Width  int
	Height int
	Cells  []imgproc.Color
}

// Sample builds a Grid from f.
func Sample(f imgproc.Frame) (*Grid, error) {
	g := &Grid{}
	if err := g.Load(f); err != nil {
		return nil, err
	}
	return g, nil
}

// Load refills g from f, reusing its cell storage. On error g is left
// unchanged.
func (g *Grid) Load(f imgproc.Frame) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("sample frame: %w", err)
	}
	n := f.Width * f.Height
	if cap(g.Cells) < n {
		g.Cells = make([]imgproc.Color, n)
	}
	g.Cells = g.Cells[:n]
	g.Width, g.Height = f.Width, f.Height

	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride:]
		cells := g.Cells[y*f.Width : (y+1)*f.Width]
		for x := range cells {
			px := row[x*f.Channels:]
			cells[x] = imgproc.Color{R: px[0], G: px[1], B: px[2]}
		}
	}
	return nil
}

// At returns the color at (x, y). The caller is responsible for bounds.
func (g *Grid) At(x, y int) imgproc.Color {
	return g.Cells[y*g.Width+x]
}
