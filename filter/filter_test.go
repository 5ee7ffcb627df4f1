package filter

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniruKun/colortrack/config"
	"github.com/DaniruKun/colortrack/imgproc"
	"github.com/DaniruKun/colortrack/particle"
)

var red = imgproc.Color{R: 255}

func testTuning(count int, reseed bool) *config.TuningConfig {
	seed := uint64(99)
	return &config.TuningConfig{ParticleCount: &count, Seed: &seed, ReseedOnEmpty: &reseed}
}

func frame(w, h int, c imgproc.Color) imgproc.Frame {
	f := imgproc.NewFrame(make([]byte, w*h*3), w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, c)
		}
	}
	return f
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Normal, Gray, Invert, Particle} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMode(" Particle ")
	require.NoError(t, err)
	assert.Equal(t, Particle, got)

	_, err = ParseMode("sepia")
	assert.Error(t, err)
	assert.Equal(t, "mode(9)", Mode(9).String())
}

func TestApplyModes(t *testing.T) {
	t.Run("normal leaves the frame alone", func(t *testing.T) {
		c := NewChain(Normal, red, nil)
		f := frame(8, 8, imgproc.Color{R: 10, G: 20, B: 30})
		before := bytes.Clone(f.Pix)
		_, err := c.Apply(f)
		require.NoError(t, err)
		assert.Equal(t, before, f.Pix)
	})

	t.Run("gray", func(t *testing.T) {
		c := NewChain(Gray, red, nil)
		f := frame(8, 8, imgproc.Color{R: 255})
		_, err := c.Apply(f)
		require.NoError(t, err)
		assert.Equal(t, imgproc.Color{R: 76, G: 76, B: 76}, f.At(3, 3))
	})

	t.Run("invert", func(t *testing.T) {
		c := NewChain(Invert, red, nil)
		f := frame(8, 8, imgproc.Color{R: 255})
		_, err := c.Apply(f)
		require.NoError(t, err)
		assert.Equal(t, imgproc.Color{G: 255, B: 255}, f.At(3, 3))
	})

	t.Run("malformed frame is an error in every mode", func(t *testing.T) {
		for _, m := range []Mode{Normal, Gray, Invert, Particle} {
			c := NewChain(m, red, nil)
			_, err := c.Apply(imgproc.NewFrame(make([]byte, 5), 8, 8, 3))
			assert.ErrorIs(t, err, imgproc.ErrMalformedFrame, "mode %v", m)
		}
	})
}

func TestParticleLifecycle(t *testing.T) {
	c := NewChain(Normal, red, testTuning(500, false))
	assert.Nil(t, c.Population())

	c.SetMode(Particle)
	res, err := c.Apply(frame(64, 48, red))
	require.NoError(t, err)
	first := c.Population()
	require.NotNil(t, first)
	assert.Equal(t, 64, first.Config().Width)
	assert.Equal(t, res.Population, first.Len())

	// staying in particle mode keeps the tracker
	c.SetMode(Particle)
	_, err = c.Apply(frame(64, 48, red))
	require.NoError(t, err)
	assert.Same(t, first, c.Population())

	// leaving and re-entering restarts it
	c.SetMode(Gray)
	c.SetMode(Particle)
	assert.Nil(t, c.Population())
	_, err = c.Apply(frame(64, 48, red))
	require.NoError(t, err)
	assert.NotSame(t, first, c.Population())

	// a new frame size restarts it too
	second := c.Population()
	_, err = c.Apply(frame(32, 24, red))
	require.NoError(t, err)
	assert.NotSame(t, second, c.Population())
	assert.Equal(t, 32, c.Population().Config().Width)
}

func TestTargetReachesTracker(t *testing.T) {
	c := NewChain(Particle, red, testTuning(200, false))
	_, err := c.Apply(frame(16, 16, red))
	require.NoError(t, err)

	blue := imgproc.Color{B: 255}
	c.SetTarget(blue)
	assert.Equal(t, blue, c.Target())
	_, err = c.Apply(frame(16, 16, red))
	require.NoError(t, err)
	assert.Equal(t, blue, c.Population().Target())
}

func TestReseedOnEmpty(t *testing.T) {
	c := NewChain(Particle, red, testTuning(300, true))
	_, err := c.Apply(frame(32, 32, red))
	require.NoError(t, err)

	pop := c.Population()
	pop.SetParticles([]particle.Particle{{Pos: image.Pt(-1, -1)}})
	res, err := c.Apply(frame(32, 32, red))
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, 300, pop.Len())

	c = NewChain(Particle, red, testTuning(300, false))
	_, err = c.Apply(frame(32, 32, red))
	require.NoError(t, err)
	c.Population().SetParticles([]particle.Particle{{Pos: image.Pt(-1, -1)}})
	res, err = c.Apply(frame(32, 32, red))
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, 0, c.Population().Len())
}

func TestKeyCommands(t *testing.T) {
	var tests = []struct {
		key  int
		want Command
	}{
		{'n', SetNormal},
		{'g', SetGray},
		{'i', SetInvert},
		{'p', SetParticle},
		{']', HueUp},
		{'[', HueDown},
		{'s', Snapshot},
		{'c', SwitchCamera},
		{' ', TogglePause},
		{'q', Quit},
		{27, Quit},
		{-1, None},
		{'x', None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyCommand(tt.key), "key %d", tt.key)
	}
}

func TestExec(t *testing.T) {
	c := NewChain(Normal, red, nil)

	assert.True(t, c.Exec(SetInvert))
	assert.Equal(t, Invert, c.Mode())
	assert.True(t, c.Exec(SetParticle))
	assert.Equal(t, Particle, c.Mode())

	assert.True(t, c.Exec(HueUp))
	assert.Equal(t, imgproc.HSV{H: 10, S: 1, V: 1}.RGB(), c.Target())
	assert.True(t, c.Exec(HueDown))
	assert.True(t, c.Exec(HueDown))
	assert.Equal(t, imgproc.HSV{H: 350, S: 1, V: 1}.RGB(), c.Target())

	assert.False(t, c.Exec(Snapshot))
	assert.False(t, c.Exec(Quit))
}
