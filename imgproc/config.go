package imgproc

import "time"

type Config struct {
	FrameInterval int           // Number of frames to skip in between processed frames
	Tick          time.Duration // Redraw interval of the frame loop
	Filter        string        // Initial filter: normal, gray, invert or particle
	Target        Color         // Initial color to track
	Device        int           // Camera device id, used when File is empty
	File          string        // Video file to read instead of a camera
	Debug         bool          // Toggles debug mode
	ShowGUI       bool          // Show GUI with live visuals or not
	SaveImg       bool          // Save the final annotated frame on exit
	SaveDir       string        // Directory snapshots are written to
	PlotPath      string        // Write the centroid trail to this PNG when set
}

// DefaultTick matches the 10ms redraw interval of the camera view.
const DefaultTick = 10 * time.Millisecond
