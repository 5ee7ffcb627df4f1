// Package trace records the tracked centroid over time and plots it.
package trace

import (
	"errors"
	"image"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmpty is returned by Save when no centroid was recorded.
var ErrEmpty = errors.New("no centroids recorded")

// Recorder keeps the most recent centroids of one tracking run.
type Recorder struct {
	Width, Height int // frame size, used for the plot axes
	max           int
	points        []image.Point
}

// NewRecorder returns a Recorder keeping at most max centroids; 0 means
// unbounded.
func NewRecorder(max int) *Recorder {
	return &Recorder{max: max}
}

// Add records a centroid.
func (r *Recorder) Add(c image.Point) {
	r.points = append(r.points, c)
	if r.max > 0 && len(r.points) > r.max {
		r.points = r.points[len(r.points)-r.max:]
	}
}

// Points returns a copy of the recorded centroids, oldest first.
func (r *Recorder) Points() []image.Point {
	return append([]image.Point(nil), r.points...)
}

// Len returns the number of recorded centroids.
func (r *Recorder) Len() int { return len(r.points) }

// Reset drops every recorded centroid.
func (r *Recorder) Reset() { r.points = r.points[:0] }

// Save plots the centroid trail to path; the format follows the extension
// (png, svg, pdf, ...). Image rows grow downwards, so Y is flipped to keep
// the plot the same way up as the frames.
func (r *Recorder) Save(path string) error {
	if len(r.points) == 0 {
		return ErrEmpty
	}

	xys := make(plotter.XYs, len(r.points))
	for i, c := range r.points {
		xys[i].X = float64(c.X)
		xys[i].Y = float64(r.Height - c.Y)
	}

	p := plot.New()
	p.Title.Text = "Tracked centroid"
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px, flipped)"
	if r.Width > 0 && r.Height > 0 {
		p.X.Min, p.X.Max = 0, float64(r.Width)
		p.Y.Min, p.Y.Max = 0, float64(r.Height)
	}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	points, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	points.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(line, points)

	w := 6 * vg.Inch
	h := 4 * vg.Inch
	if r.Width > 0 && r.Height > 0 {
		h = w * vg.Length(r.Height) / vg.Length(r.Width)
	}
	return p.Save(w, h, path)
}
