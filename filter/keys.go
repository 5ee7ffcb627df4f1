package filter

import "github.com/DaniruKun/colortrack/imgproc"

// Command is a user action triggered from the preview window.
type Command int

const (
	None Command = iota
	SetNormal
	SetGray
	SetInvert
	SetParticle
	HueUp
	HueDown
	Snapshot
	SwitchCamera
	TogglePause
	Quit
)

// HueStep is the hue rotation applied by HueUp and HueDown, in degrees.
const HueStep = 10

// KeyCommand maps a key code, as returned by a window's WaitKey, to a
// Command. Unmapped keys return None.
func KeyCommand(key int) Command {
	switch key {
	case 'n':
		return SetNormal
	case 'g':
		return SetGray
	case 'i':
		return SetInvert
	case 'p':
		return SetParticle
	case ']':
		return HueUp
	case '[':
		return HueDown
	case 's':
		return Snapshot
	case 'c':
		return SwitchCamera
	case ' ':
		return TogglePause
	case 'q', 27: // esc
		return Quit
	}
	return None
}

// Exec applies the commands that change filter state and reports whether
// cmd was handled. Snapshot, camera, pause and quit are left to the caller.
func (c *Chain) Exec(cmd Command) bool {
	switch cmd {
	case SetNormal:
		c.SetMode(Normal)
	case SetGray:
		c.SetMode(Gray)
	case SetInvert:
		c.SetMode(Invert)
	case SetParticle:
		c.SetMode(Particle)
	case HueUp, HueDown:
		dir := imgproc.CW
		if cmd == HueDown {
			dir = imgproc.CCW
		}
		// direction is always valid here
		_, _ = c.RotateTarget(HueStep, dir)
	default:
		return false
	}
	return true
}
