// Package filter dispatches frames to the active per-frame filter and owns
// the particle tracker's lifecycle across mode switches.
package filter

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/DaniruKun/colortrack/config"
	"github.com/DaniruKun/colortrack/imgproc"
	"github.com/DaniruKun/colortrack/particle"
	"github.com/DaniruKun/colortrack/syncx"
)

// Mode selects the filter applied to each frame.
type Mode int

const (
	Normal Mode = iota
	Gray
	Invert
	Particle
)

var modeNames = map[Mode]string{
	Normal:   "normal",
	Gray:     "gray",
	Invert:   "invert",
	Particle: "particle",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return Normal, fmt.Errorf("unknown filter %q (want normal, gray, invert or particle)", s)
}

// Chain applies the active filter to frames. Frames are processed one at a
// time; the target color may be changed from any goroutine.
type Chain struct {
	target *syncx.RWGuard[imgproc.Color]
	tuning *config.TuningConfig

	mu      sync.Mutex
	mode    Mode
	pop     *particle.Population
	session string
	rng     *rand.Rand
}

// NewChain returns a Chain in the given mode. A nil tuning uses defaults.
func NewChain(mode Mode, target imgproc.Color, tuning *config.TuningConfig) *Chain {
	if tuning == nil {
		tuning = config.EmptyTuningConfig()
	}
	return &Chain{
		target: syncx.NewGuard(target),
		tuning: tuning,
		mode:   mode,
		rng:    rand.New(particle.NewSource(tuning.GetSeed())),
	}
}

// Mode returns the active mode.
func (c *Chain) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the active filter. Entering particle mode from another
// mode discards any tracker history; the next frame starts a fresh cloud.
func (c *Chain) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m == c.mode {
		return
	}
	if m == Particle {
		c.pop = nil
	}
	slog.Info("filter changed", "from", c.mode, "to", m)
	c.mode = m
}

// Target returns the tracked color.
func (c *Chain) Target() imgproc.Color { return c.target.Get() }

// SetTarget changes the tracked color from the next frame on.
func (c *Chain) SetTarget(col imgproc.Color) { c.target.Set(col) }

// RotateTarget shifts the tracked color's hue and returns the new color.
func (c *Chain) RotateTarget(degrees uint32, direction string) (imgproc.Color, error) {
	var err error
	col := c.target.Update(func(col *imgproc.Color) {
		hsv := imgproc.ToHSV(*col)
		if err = hsv.RotateHue(degrees, direction); err == nil {
			*col = hsv.RGB()
		}
	})
	return col, err
}

// Population returns the current tracker, nil outside particle mode or
// before the first particle frame.
func (c *Chain) Population() *particle.Population {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pop
}

// Apply runs the active filter on f in place. The Result is only populated
// in particle mode.
func (c *Chain) Apply(f imgproc.Frame) (particle.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case Gray:
		return particle.Result{}, imgproc.Grayscale(f)
	case Invert:
		return particle.Result{}, imgproc.Invert(f)
	case Particle:
		return c.track(f)
	default:
		return particle.Result{}, f.Validate()
	}
}

func (c *Chain) track(f imgproc.Frame) (particle.Result, error) {
	if c.pop != nil {
		cfg := c.pop.Config()
		if cfg.Width != f.Width || cfg.Height != f.Height {
			slog.Info("frame size changed, restarting tracker",
				"session", c.session, "from", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
				"to", fmt.Sprintf("%dx%d", f.Width, f.Height))
			c.pop = nil
		}
	}
	if c.pop == nil {
		if err := c.start(f.Width, f.Height); err != nil {
			return particle.Result{}, err
		}
	}

	c.pop.SetTarget(c.target.Get())
	res, err := c.pop.Step(f)
	if err != nil {
		return res, fmt.Errorf("particle step: %w", err)
	}

	switch {
	case res.Empty:
		slog.Warn("particle population empty", "session", c.session)
		if c.tuning.GetReseedOnEmpty() {
			c.pop.Reseed(c.pop.Config().TargetCount)
		}
	case res.Degenerate:
		slog.Warn("all survivors scored zero, skipping diffusion",
			"session", c.session, "survivors", res.Survivors)
	default:
		slog.Debug("particle step", "session", c.session,
			"survivors", res.Survivors, "spawned", res.Spawned,
			"population", res.Population, "centroid", res.Centroid)
	}
	return res, nil
}

func (c *Chain) start(w, h int) error {
	cfg := particle.ConfigFromTuning(c.tuning, w, h, c.target.Get())
	pop, err := particle.New(cfg, rand.NewPCG(c.rng.Uint64(), c.rng.Uint64()))
	if err != nil {
		return err
	}
	c.pop = pop
	c.session = uuid.NewString()
	slog.Info("tracking started", "session", c.session,
		"size", fmt.Sprintf("%dx%d", w, h), "particles", pop.Len(),
		"target", cfg.Target)
	return nil
}
