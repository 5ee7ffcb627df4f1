// Package capture runs the camera/video frame loop: it reads frames with
// gocv, hands them to the filter chain as raw RGB buffers, and shows,
// saves and plots the results.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/DaniruKun/colortrack/filter"
	"github.com/DaniruKun/colortrack/imgproc"
	"github.com/DaniruKun/colortrack/particle"
	"github.com/DaniruKun/colortrack/trace"
	"github.com/DaniruKun/colortrack/utils"
)

const windowTitle = "colortrack"

// Open opens the video file in cfg, or the camera device when no file is
// set.
func Open(cfg imgproc.Config) (*gocv.VideoCapture, error) {
	if cfg.File != "" {
		video, err := gocv.VideoCaptureFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("error opening video file %s: %w", cfg.File, err)
		}
		return video, nil
	}
	video, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("error opening camera device %d: %w", cfg.Device, err)
	}
	return video, nil
}

// Run reads frames until the source is exhausted, the user quits from the
// window, or ctx is cancelled. Frames are processed strictly one after the
// other.
func Run(ctx context.Context, cfg imgproc.Config, chain *filter.Chain, rec *trace.Recorder) error {
	video, err := Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = video.Close() }()

	var window *gocv.Window
	if cfg.ShowGUI {
		window = gocv.NewWindow(windowTitle)
		defer func() { _ = window.Close() }()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	// last displayed frame, BGR
	shown := gocv.NewMat()
	defer shown.Close()

	tick := cfg.Tick
	if tick <= 0 {
		tick = imgproc.DefaultTick
	}
	delay := max(int(tick/time.Millisecond), 1)

	var frameCnt int
	var paused bool

loop:
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("stopping processing", "reason", err)
			break
		}

		if !paused {
			if ok := video.Read(&frame); !ok {
				slog.Info("device closed", "file", cfg.File, "device", cfg.Device)
				break
			}
			if frame.Empty() {
				continue
			}
			if frameCnt < cfg.FrameInterval {
				frameCnt++
				continue
			}
			frameCnt = 0

			res, err := process(frame, &shown, chain)
			if err != nil {
				slog.Warn("frame not annotated", "error", err)
			} else if rec != nil && res.HasCentroid {
				rec.Width, rec.Height = frame.Cols(), frame.Rows()
				rec.Add(res.Centroid)
			}
		}

		if window == nil {
			continue
		}
		if !shown.Empty() {
			window.IMShow(shown)
		}
		cmd := filter.KeyCommand(window.WaitKey(delay))
		if chain.Exec(cmd) {
			if cmd == filter.HueUp || cmd == filter.HueDown {
				slog.Info("target changed", "target", chain.Target())
			}
			continue
		}
		switch cmd {
		case filter.Snapshot:
			if err := saveSnapshot(cfg.SaveDir, shown); err != nil {
				slog.Error("saving a picture failed", "error", err)
			}
		case filter.SwitchCamera:
			if next, err := switchCamera(&cfg); err != nil {
				slog.Warn("cannot switch camera", "error", err)
			} else {
				_ = video.Close()
				video = next
			}
		case filter.TogglePause:
			paused = !paused
			slog.Info("pause toggled", "paused", paused)
		case filter.Quit:
			break loop
		}
	}

	if cfg.SaveImg {
		if err := saveSnapshot(cfg.SaveDir, shown); err != nil {
			slog.Error("saving a picture failed", "error", err)
		}
	}
	if cfg.PlotPath != "" && rec != nil {
		if err := rec.Save(cfg.PlotPath); err != nil {
			if !errors.Is(err, trace.ErrEmpty) {
				return fmt.Errorf("saving centroid plot: %w", err)
			}
			slog.Warn("no centroid to plot", "path", cfg.PlotPath)
		} else {
			slog.Info("centroid plot saved", "path", cfg.PlotPath, "points", rec.Len())
		}
	}
	return nil
}

// process runs the chain on a BGR frame and leaves the displayable BGR
// result in shown. When the chain rejects the frame, the raw frame is shown
// instead.
func process(frame gocv.Mat, shown *gocv.Mat, chain *filter.Chain) (particle.Result, error) {
	if frame.Channels() != 3 {
		frame.CopyTo(shown)
		return particle.Result{}, fmt.Errorf("%w: %d channel frame", imgproc.ErrMalformedFrame, frame.Channels())
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(frame, &rgb, gocv.ColorBGRToRGB)

	pix := rgb.ToBytes()
	f := imgproc.NewFrame(pix, rgb.Cols(), rgb.Rows(), 3)
	res, err := chain.Apply(f)
	if err != nil {
		frame.CopyTo(shown)
		return res, err
	}

	out, err := gocv.NewMatFromBytes(rgb.Rows(), rgb.Cols(), gocv.MatTypeCV8UC3, pix)
	if err != nil {
		frame.CopyTo(shown)
		return res, err
	}
	defer out.Close()
	gocv.CvtColor(out, shown, gocv.ColorRGBToBGR)
	return res, nil
}

func saveSnapshot(dir string, img gocv.Mat) error {
	if img.Empty() {
		return errors.New("nothing to save yet")
	}
	path := utils.GetSnapshotPath(dir, time.Now())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("could not write %s", path)
	}
	slog.Info("picture saved", "path", path)
	return nil
}

// switchCamera toggles between camera devices 0 and 1.
func switchCamera(cfg *imgproc.Config) (*gocv.VideoCapture, error) {
	if cfg.File != "" {
		return nil, errors.New("reading from a file")
	}
	next := 1 - min(max(cfg.Device, 0), 1)
	video, err := gocv.OpenVideoCapture(next)
	if err != nil {
		return nil, err
	}
	if !video.IsOpened() {
		_ = video.Close()
		return nil, fmt.Errorf("camera device %d not available", next)
	}
	slog.Info("camera switched", "from", cfg.Device, "to", next)
	cfg.Device = next
	return video, nil
}
