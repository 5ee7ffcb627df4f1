package imgproc

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame is returned when a pixel buffer is too short for its
// declared layout, or the layout itself is impossible.
var ErrMalformedFrame = errors.New("malformed frame")

// Frame is a raw interleaved pixel buffer, row-major, with at least three
// channels per pixel in red/green/blue order. It is edited in place.
type Frame struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int // bytes per pixel, >= 3
	Stride   int // bytes per row
}

// NewFrame wraps a tightly packed buffer (Stride = Width*Channels).
func NewFrame(pix []byte, width, height, channels int) Frame {
	return Frame{Pix: pix, Width: width, Height: height, Channels: channels, Stride: width * channels}
}

// Validate reports whether every pixel of the declared layout can be
// addressed without reading past the end of Pix.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrMalformedFrame, f.Width, f.Height)
	}
	if f.Channels < 3 {
		return fmt.Errorf("%w: %d channels, need at least 3", ErrMalformedFrame, f.Channels)
	}
	if f.Stride < f.Width*f.Channels {
		return fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrMalformedFrame, f.Stride, f.Width*f.Channels)
	}
	need := (f.Height-1)*f.Stride + f.Width*f.Channels
	if len(f.Pix) < need {
		return fmt.Errorf("%w: buffer has %d bytes, need %d", ErrMalformedFrame, len(f.Pix), need)
	}
	return nil
}

// Offset returns the index of the first channel of pixel (x, y).
// The caller is responsible for bounds.
func (f Frame) Offset(x, y int) int {
	return y*f.Stride + x*f.Channels
}

// At returns the color at (x, y). The caller is responsible for bounds.
func (f Frame) At(x, y int) Color {
	i := f.Offset(x, y)
	return Color{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2]}
}

// Set overwrites the color channels of (x, y), leaving any extra channel
// (alpha) untouched. Out of range coordinates are ignored.
func (f Frame) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := f.Offset(x, y)
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
}
