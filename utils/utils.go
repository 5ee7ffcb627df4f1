package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DaniruKun/colortrack/imgproc"
)

// SnapshotLayout is the timestamp format used for snapshot file names.
const SnapshotLayout = "2006-01-02-15:04:05"

// DefaultSaveDir returns ~/Pictures, or the working directory when the home
// directory cannot be determined.
func DefaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures")
}

// GetSnapshotPath returns the JPEG path for a snapshot taken at t.
func GetSnapshotPath(dir string, t time.Time) string {
	if dir == "" {
		dir = DefaultSaveDir()
	}
	return filepath.Join(dir, t.Format(SnapshotLayout)+".jpg")
}

// ParseHexColor parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseHexColor(s string) (imgproc.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return imgproc.Color{}, errors.New("color must be #rrggbb or #rgb: " + s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return imgproc.Color{}, errors.New("invalid hex color: " + s)
	}
	return imgproc.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
