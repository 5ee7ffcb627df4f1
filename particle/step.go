package particle

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"github.com/DaniruKun/colortrack/imgproc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Overlay colors.
var (
	MarkerColor    = imgproc.Color{R: 255}
	CrosshairColor = imgproc.Color{R: 255, G: 255, B: 255}
)

// Result summarizes one Step.
type Result struct {
	Survivors  int // particles left after selection
	Spawned    int // children added by diffusion
	Population int // particles carried into the next Step

	Centroid    image.Point
	HasCentroid bool

	// Degenerate is set when every survivor scored zero. Survivors are
	// carried forward with zero weight, nothing is spawned or drawn.
	Degenerate bool
	// Empty is set when selection removed every particle.
	Empty bool
}

// Step runs one predict, score, select, normalize, diffuse and annotate
// cycle against f, and draws the resulting population into f.
//
// A malformed or mis-sized frame is rejected before any particle or pixel is
// touched.
func (p *Population) Step(f imgproc.Frame) (Result, error) {
	if f.Width != p.cfg.Width || f.Height != p.cfg.Height {
		return Result{}, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrFrameSize, f.Width, f.Height, p.cfg.Width, p.cfg.Height)
	}
	if err := p.grid.Load(f); err != nil {
		return Result{}, err
	}
	p.hasCentroid = false

	p.predict()
	p.sorted = p.sortByLikelihood(p.particles, p.sorted)
	p.particles = p.selectSurvivors(p.particles)

	res := Result{Survivors: len(p.particles)}
	if len(p.particles) == 0 {
		res.Empty = true
		return res, nil
	}

	if !p.normalize() {
		res.Degenerate = true
		res.Population = len(p.particles)
		return res, nil
	}

	res.Spawned = p.diffuse()
	res.Population = len(p.particles)
	res.Centroid, res.HasCentroid = p.annotate(f)
	return res, nil
}

// predict advances every particle by its velocity and scores it against the
// target. Particles outside the frame score zero.
func (p *Population) predict() {
	ps := p.particles
	target := p.cfg.Target
	p.forEachChunk(len(ps), scoreChunk, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			pt := &ps[i]
			pt.Pos = pt.Pos.Add(pt.Vel)
			if p.inFrame(pt.Pos) {
				pt.Likelihood = Likelihood(p.grid.At(pt.Pos.X, pt.Pos.Y), target)
			} else {
				pt.Likelihood = 0
			}
		}
	})
}

// selectSurvivors keeps, from ps sorted ascending by likelihood, every
// particle above the threshold and the top len(ps)/KeepDivisor by rank.
// Order is preserved and ps is compacted in place.
func (p *Population) selectSurvivors(ps []Particle) []Particle {
	n := len(ps)
	rank := n - n/p.cfg.KeepDivisor
	out := ps[:0]
	for i := range ps {
		ps[i].keep = ps[i].Likelihood > p.cfg.Threshold || i >= rank
		if ps[i].keep {
			out = append(out, ps[i])
		}
	}
	return out
}

// normalize sets each weight to its share of the likelihood sum. It reports
// false, and zeroes every weight, when the sum is zero.
func (p *Population) normalize() bool {
	ps := p.particles
	if cap(p.likes) < len(ps) {
		p.likes = make([]float64, len(ps))
	}
	likes := p.likes[:len(ps)]
	for i := range ps {
		likes[i] = ps[i].Likelihood
	}
	sum := floats.Sum(likes)

	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for i := range ps {
			ps[i].Weight = 0
		}
		return false
	}

	p.forEachChunk(len(ps), scoreChunk, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			ps[i].Weight = ps[i].Likelihood / sum
		}
	})
	return true
}

// diffuse appends children around each survivor and returns how many were
// added. A survivor spawns floor(weight * gap) children, gap being the
// shortfall of survivors against TargetCount. Each child is offset by a
// radius drawn from N(0, W+H) scaled by (1 - likelihood), at a uniform
// angle, and keeps that offset as its velocity.
func (p *Population) diffuse() int {
	survivors := p.particles
	gap := max(p.cfg.TargetCount-len(survivors), 0)
	if gap == 0 {
		return 0
	}

	nchunks := (len(survivors) + diffuseChunk - 1) / diffuseChunk
	sources := make([]rand.Source, nchunks)
	for i := range sources {
		sources[i] = rand.NewPCG(p.rng.Uint64(), p.rng.Uint64())
	}
	children := make([][]Particle, nchunks)
	sigma := float64(p.cfg.Width + p.cfg.Height)

	p.forEachChunk(len(survivors), diffuseChunk, func(c, lo, hi int) {
		radius := distuv.Normal{Mu: 0, Sigma: sigma, Src: sources[c]}
		theta := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: sources[c]}

		var out []Particle
		for _, parent := range survivors[lo:hi] {
			n := int(math.Floor(parent.Weight * float64(gap)))
			for k := 0; k < n; k++ {
				r := radius.Rand() * (1 - parent.Likelihood)
				a := theta.Rand()
				v := image.Pt(int(r*math.Cos(a)), int(r*math.Sin(a)))
				out = append(out, Particle{
					Pos:        parent.Pos.Add(v),
					Vel:        v,
					Likelihood: parent.Likelihood,
					Weight:     parent.Weight,
				})
			}
		}
		children[c] = out
	})

	spawned := 0
	for _, cs := range children {
		spawned += len(cs)
	}
	next := make([]Particle, len(survivors), len(survivors)+spawned)
	copy(next, survivors)
	for _, cs := range children {
		next = append(next, cs...)
	}
	p.particles = next
	return spawned
}

// annotate stamps every in-frame particle into f and draws a crosshair at
// the centroid of all particles, in frame or not. Each crosshair line is
// drawn only when its coordinate falls inside the frame.
func (p *Population) annotate(f imgproc.Frame) (image.Point, bool) {
	ps := p.particles
	if len(ps) == 0 {
		return image.Point{}, false
	}

	var sx, sy int64
	for _, pt := range ps {
		if p.inFrame(pt.Pos) {
			f.Set(pt.Pos.X, pt.Pos.Y, MarkerColor)
		}
		sx += int64(pt.Pos.X)
		sy += int64(pt.Pos.Y)
	}
	n := int64(len(ps))
	c := image.Pt(int(sx/n), int(sy/n))

	if 0 <= c.Y && c.Y < f.Height {
		for x := 0; x < f.Width; x++ {
			f.Set(x, c.Y, CrosshairColor)
		}
	}
	if 0 <= c.X && c.X < f.Width {
		for y := 0; y < f.Height; y++ {
			f.Set(c.X, y, CrosshairColor)
		}
	}

	p.centroid, p.hasCentroid = c, true
	return c, true
}
