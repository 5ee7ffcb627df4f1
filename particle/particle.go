package particle

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/DaniruKun/colortrack/config"
	"github.com/DaniruKun/colortrack/imgproc"
)

var (
	// ErrMalformedFrame is returned by Step when the frame buffer cannot
	// hold its declared layout.
	ErrMalformedFrame = imgproc.ErrMalformedFrame
	// ErrFrameSize is returned by Step when the frame is not the size the
	// population was built for.
	ErrFrameSize = errors.New("frame size mismatch")
	// ErrConfig is returned by New for an unusable configuration.
	ErrConfig = errors.New("invalid tracker config")
)

// Particle is a single position/velocity hypothesis.
type Particle struct {
	Pos        image.Point // may be outside the frame
	Vel        image.Point // applied to Pos on the next Step
	Likelihood float64
	Weight     float64

	keep bool
}

// Config holds the tracker parameters.
type Config struct {
	Width       int // frame width in pixels
	Height      int // frame height in pixels
	TargetCount int // desired population size, approximate
	Target      imgproc.Color
	Threshold   float64 // particles scoring above this always survive
	KeepDivisor int     // the top len/KeepDivisor by rank always survive
	Workers     int     // 0 means GOMAXPROCS
}

// DefaultConfig returns a Config with the default selection parameters.
func DefaultConfig(width, height, count int, target imgproc.Color) Config {
	return Config{
		Width:       width,
		Height:      height,
		TargetCount: count,
		Target:      target,
		Threshold:   config.DefaultLikelihoodThreshold,
		KeepDivisor: config.DefaultKeepDivisor,
	}
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig, width, height int, target imgproc.Color) Config {
	return Config{
		Width:       width,
		Height:      height,
		TargetCount: cfg.GetParticleCount(),
		Target:      target,
		Threshold:   cfg.GetLikelihoodThreshold(),
		KeepDivisor: cfg.GetKeepDivisor(),
		Workers:     cfg.GetWorkers(),
	}
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrConfig, c.Width, c.Height)
	case c.TargetCount <= 0:
		return fmt.Errorf("%w: target count %d", ErrConfig, c.TargetCount)
	case c.KeepDivisor <= 0:
		return fmt.Errorf("%w: keep divisor %d", ErrConfig, c.KeepDivisor)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrConfig, c.Workers)
	}
	return nil
}

// Population is the tracker state carried between frames. It is not safe
// for concurrent use; Step parallelizes internally.
type Population struct {
	cfg       Config
	particles []Particle
	rng       *rand.Rand

	centroid    image.Point
	hasCentroid bool

	grid   Grid
	likes  []float64
	sorted []Particle
}

// NewSource returns a generator source for New. A zero seed draws one from
// the clock.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// New builds a population seeded with a uniformly random cloud of a random
// size in [0, cfg.TargetCount). src drives every random draw the
// population makes; nil seeds from the clock.
func New(cfg Config, src rand.Source) (*Population, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(0)
	}
	p := &Population{
		cfg: cfg,
		rng: rand.New(src),
	}
	p.Reseed(p.rng.IntN(cfg.TargetCount))
	return p, nil
}

// Reseed replaces the population with n particles placed uniformly over the
// frame, at rest, with likelihood 1.
func (p *Population) Reseed(n int) {
	if n < 0 {
		n = 0
	}
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{
			Pos:        image.Pt(p.rng.IntN(p.cfg.Width), p.rng.IntN(p.cfg.Height)),
			Likelihood: 1,
		}
	}
	p.particles = ps
	p.hasCentroid = false
}

// Config returns the population's configuration.
func (p *Population) Config() Config { return p.cfg }

// Target returns the tracked color.
func (p *Population) Target() imgproc.Color { return p.cfg.Target }

// SetTarget changes the tracked color from the next Step on.
func (p *Population) SetTarget(c imgproc.Color) { p.cfg.Target = c }

// Len returns the current number of particles.
func (p *Population) Len() int { return len(p.particles) }

// Particles returns a copy of the current particles.
func (p *Population) Particles() []Particle {
	return append([]Particle(nil), p.particles...)
}

// SetParticles replaces the current particles with a copy of ps.
func (p *Population) SetParticles(ps []Particle) {
	p.particles = append(p.particles[:0:0], ps...)
	p.hasCentroid = false
}

// Centroid returns the centroid computed by the last Step, and false when
// that Step produced none.
func (p *Population) Centroid() (image.Point, bool) {
	return p.centroid, p.hasCentroid
}

// inFrame reports whether pt lies strictly inside (0,W)x(0,H).
func (p *Population) inFrame(pt image.Point) bool {
	return 0 < pt.X && pt.X < p.cfg.Width && 0 < pt.Y && pt.Y < p.cfg.Height
}
