package particle

import (
	"math"

	"github.com/DaniruKun/colortrack/imgproc"
)

// maxDistanceSq is the squared RGB distance between black and white.
const maxDistanceSq = 3 * 255 * 255

// Likelihood scores how close observed is to target: 1 minus the Euclidean
// RGB distance normalized by the black-white distance. Identical colors
// score exactly 1, opposite corners of the RGB cube exactly 0.
func Likelihood(observed, target imgproc.Color) float64 {
	dr := float64(observed.R) - float64(target.R)
	dg := float64(observed.G) - float64(target.G)
	db := float64(observed.B) - float64(target.B)
	s := 1 - math.Sqrt((dr*dr+dg*dg+db*db)/maxDistanceSq)
	return math.Min(1, math.Max(0, s))
}
