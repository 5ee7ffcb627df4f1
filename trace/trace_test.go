package trace

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderBounded(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 5; i++ {
		r.Add(image.Pt(i, i*2))
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []image.Point{{2, 4}, {3, 6}, {4, 8}}, r.Points())

	r.Reset()
	assert.Equal(t, 0, r.Len())
}

func TestRecorderUnbounded(t *testing.T) {
	r := NewRecorder(0)
	for i := 0; i < 100; i++ {
		r.Add(image.Pt(i, i))
	}
	assert.Equal(t, 100, r.Len())
}

func TestSave(t *testing.T) {
	r := NewRecorder(0)
	r.Width, r.Height = 640, 360

	err := r.Save(filepath.Join(t.TempDir(), "empty.png"))
	assert.ErrorIs(t, err, ErrEmpty)

	for i := 0; i < 20; i++ {
		r.Add(image.Pt(300+i, 150+i))
	}
	path := filepath.Join(t.TempDir(), "trail.png")
	require.NoError(t, r.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
