package imgproc

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// rowsPerChunk is the number of frame rows handed to one worker.
const rowsPerChunk = 32

// forEachRows runs fn over disjoint row ranges of f in parallel and waits
// for all of them to finish.
func forEachRows(f Frame, fn func(y0, y1 int)) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < f.Height; y += rowsPerChunk {
		y0, y1 := y, min(y+rowsPerChunk, f.Height)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}

// Grayscale replaces the color channels of every pixel with its luma
// (0.299R + 0.587G + 0.114B, truncated).
func Grayscale(f Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	forEachRows(f, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := f.Pix[y*f.Stride:]
			for x := 0; x < f.Width; x++ {
				px := row[x*f.Channels:]
				gray := uint8(0.299*float32(px[0]) + 0.587*float32(px[1]) + 0.114*float32(px[2]))
				px[0], px[1], px[2] = gray, gray, gray
			}
		}
	})
	return nil
}

// Invert replaces every byte of every pixel, alpha included, with its
// complement.
func Invert(f Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	forEachRows(f, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := f.Pix[y*f.Stride : y*f.Stride+f.Width*f.Channels]
			for i := range row {
				row[i] = 255 - row[i]
			}
		}
	})
	return nil
}
