/*
Copyright © 2022 Daniils Petrovs <thedanpetrov@gmail.com>

*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DaniruKun/colortrack/capture"
	"github.com/DaniruKun/colortrack/config"
	"github.com/DaniruKun/colortrack/filter"
	"github.com/DaniruKun/colortrack/imgproc"
	"github.com/DaniruKun/colortrack/trace"
	"github.com/DaniruKun/colortrack/utils"
	"github.com/spf13/cobra"
)

const DefaultTarget = "#ff0000"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "colortrack",
	Short: "Color tracking camera filter",
	Long: `Reads frames from a camera or a video file and applies a live filter:
normal, gray, invert, or a particle filter that tracks a target color and
draws a crosshair on it.

Window keys: n/g/i/p switch filter, [ and ] rotate the target hue,
s saves a snapshot, c switches camera, space pauses, q or esc quits.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		debug, _ := flags.GetBool("debug")
		setupLogger(debug)

		tuning := config.EmptyTuningConfig()
		if path, _ := flags.GetString("config"); path != "" {
			var err error
			if tuning, err = config.LoadTuningConfig(path); err != nil {
				return err
			}
		}
		if flags.Changed("particles") {
			n, _ := flags.GetInt("particles")
			tuning.ParticleCount = &n
		}
		if flags.Changed("seed") {
			seed, _ := flags.GetUint64("seed")
			tuning.Seed = &seed
		}
		if flags.Changed("interval") {
			interval, _ := flags.GetInt("interval")
			tuning.FrameInterval = &interval
		}
		if err := tuning.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		targetHex, _ := flags.GetString("target")
		target, err := utils.ParseHexColor(targetHex)
		if err != nil {
			return err
		}
		filterName, _ := flags.GetString("filter")
		mode, err := filter.ParseMode(filterName)
		if err != nil {
			return err
		}

		filePath, _ := flags.GetString("file")
		device, _ := flags.GetInt("device")
		showGUI, _ := flags.GetBool("gui")
		saveImg, _ := flags.GetBool("save")
		saveDir, _ := flags.GetString("save-dir")
		plotPath, _ := flags.GetString("plot")

		cfg := imgproc.Config{
			FrameInterval: tuning.GetFrameInterval(),
			Tick:          imgproc.DefaultTick,
			Filter:        mode.String(),
			Target:        target,
			Device:        device,
			File:          filePath,
			Debug:         debug,
			ShowGUI:       showGUI,
			SaveImg:       saveImg,
			SaveDir:       saveDir,
			PlotPath:      plotPath,
		}

		slog.Info("running colortrack", "filter", cfg.Filter, "target", cfg.Target,
			"particles", tuning.GetParticleCount(), "file", cfg.File, "device", cfg.Device)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		chain := filter.NewChain(mode, target, tuning)
		return capture.Run(ctx, cfg, chain, trace.NewRecorder(0))
	},
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP("file", "f", "", "Video file to read instead of a camera")
	rootCmd.Flags().IntP("device", "d", 0, "Camera device id")
	rootCmd.Flags().BoolP("gui", "g", false, "Show GUI with preview")
	rootCmd.Flags().BoolP("save", "s", false, "Save the last frame on exit")
	rootCmd.Flags().String("save-dir", utils.DefaultSaveDir(), "Directory for saved pictures")
	rootCmd.Flags().String("filter", filter.Normal.String(), "Initial filter: normal, gray, invert or particle")
	rootCmd.Flags().StringP("target", "t", DefaultTarget, "Color to track, as #rrggbb")
	rootCmd.Flags().IntP("particles", "n", config.DefaultParticleCount, "Desired particle count")
	rootCmd.Flags().IntP("interval", "i", 0, "Frames to skip between processed frames")
	rootCmd.Flags().Uint64("seed", 0, "Random seed for the particle filter, 0 seeds from the clock")
	rootCmd.Flags().StringP("config", "c", "", "Tracker tuning JSON file")
	rootCmd.Flags().String("plot", "", "Write the centroid trail to this image file on exit")
	rootCmd.Flags().Bool("debug", false, "Log every particle step")
}
