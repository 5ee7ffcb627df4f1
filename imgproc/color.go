package imgproc

import (
	"fmt"
	"image/color"
	"math"
)

// Color is a 24-bit RGB value.
type Color struct {
	R, G, B uint8
}

// Invert returns the channel-wise complement of c.
func (c Color) Invert() Color {
	return Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// RGBA converts c to a solid color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// Hex formats c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

type HSV struct {
	H uint32  // 0 <= H < 360
	S float64 // 0 <= S <= 1
	V float64 // 0 <= V <= 1
}

const (
	CW  = "cw"
	CCW = "ccw"
)

// Rotates the hue `H` by a number of `degrees` in the given `direction`. Direction is either `cw` or `ccw`
func (color *HSV) RotateHue(degrees uint32, direction string) error {
	degrees %= 360
	switch direction {
	case CW:
		color.H = (color.H + degrees) % 360
	case CCW:
		color.H = (color.H + 360 - degrees) % 360
	default:
		return fmt.Errorf("unknown direction: %q", direction)
	}
	return nil
}

// Converts an HSV color to RGBA, where `A` is implicitly set to 255 (solid)
func (col HSV) RGBA() color.RGBA {
	return col.RGB().RGBA()
}

// RGB converts an HSV color to a 24-bit Color.
func (col HSV) RGB() Color {
	h := col.H % 360
	c := col.V * col.S
	x := c * (1 - math.Abs(math.Mod(float64(h)/60, 2)-1))
	m := col.V - c

	var rp, gp, bp float64 // R' G' B'
	switch {
	case h < 60:
		rp, gp, bp = c, x, 0
	case h < 120:
		rp, gp, bp = x, c, 0
	case h < 180:
		rp, gp, bp = 0, c, x
	case h < 240:
		rp, gp, bp = 0, x, c
	case h < 300:
		rp, gp, bp = x, 0, c
	default:
		rp, gp, bp = c, 0, x
	}

	return Color{
		R: uint8(math.Round((rp + m) * 255)),
		G: uint8(math.Round((gp + m) * 255)),
		B: uint8(math.Round((bp + m) * 255)),
	}
}

// ToHSV converts an RGB color to HSV. Hue is rounded to whole degrees.
func ToHSV(c Color) HSV {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case max == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = delta / max
	}

	return HSV{H: uint32(math.Round(h)) % 360, S: s, V: max}
}
