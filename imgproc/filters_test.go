package imgproc

import (
	"errors"
	"testing"
)

func solidFrame(w, h, channels int, c Color) Frame {
	f := NewFrame(make([]byte, w*h*channels), w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, c)
		}
	}
	return f
}

func TestGrayscale(t *testing.T) {
	var tests = []struct {
		in   Color
		want uint8
	}{
		{Color{0, 0, 0}, 0},
		{Color{255, 0, 0}, 76},
		{Color{0, 255, 0}, 149},
		{Color{0, 0, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.in.Hex(), func(t *testing.T) {
			f := solidFrame(70, 40, 3, tt.in)
			if err := Grayscale(f); err != nil {
				t.Fatal(err)
			}
			for y := 0; y < f.Height; y++ {
				for x := 0; x < f.Width; x++ {
					got := f.At(x, y)
					if got != (Color{tt.want, tt.want, tt.want}) {
						t.Fatalf("pixel (%d,%d) = %v, want gray %d", x, y, got, tt.want)
					}
				}
			}
		})
	}
}

func TestGrayscaleKeepsAlpha(t *testing.T) {
	f := solidFrame(4, 4, 4, Color{255, 0, 0})
	for i := 3; i < len(f.Pix); i += 4 {
		f.Pix[i] = 200
	}
	if err := Grayscale(f); err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(f.Pix); i += 4 {
		if f.Pix[i] != 200 {
			t.Fatalf("alpha byte %d changed to %d", i, f.Pix[i])
		}
	}
}

func TestInvert(t *testing.T) {
	f := NewFrame(make([]byte, 5*3*4), 5, 3, 4)
	for i := range f.Pix {
		f.Pix[i] = byte(i)
	}
	if err := Invert(f); err != nil {
		t.Fatal(err)
	}
	for i, b := range f.Pix {
		if b != 255-byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, b, 255-byte(i))
		}
	}
}

func TestFiltersRejectShortBuffer(t *testing.T) {
	f := NewFrame(make([]byte, 10), 4, 4, 3)
	if err := Grayscale(f); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Grayscale: got %v, want ErrMalformedFrame", err)
	}
	if err := Invert(f); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Invert: got %v, want ErrMalformedFrame", err)
	}
}

func TestFrameValidate(t *testing.T) {
	var tests = []struct {
		name string
		f    Frame
		ok   bool
	}{
		{"packed", NewFrame(make([]byte, 12), 2, 2, 3), true},
		{"padded stride", Frame{Pix: make([]byte, 8+6), Width: 2, Height: 2, Channels: 3, Stride: 8}, true},
		{"short", NewFrame(make([]byte, 11), 2, 2, 3), false},
		{"two channels", NewFrame(make([]byte, 8), 2, 2, 2), false},
		{"zero size", NewFrame(nil, 0, 2, 3), false},
		{"stride too small", Frame{Pix: make([]byte, 100), Width: 4, Height: 2, Channels: 3, Stride: 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrMalformedFrame) {
				t.Errorf("got %v, want ErrMalformedFrame", err)
			}
		})
	}
}
