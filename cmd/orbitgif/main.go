package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/san-kum/orbitgif/internal/config"
	"github.com/san-kum/orbitgif/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Config file
	configFile string
	// Preset name within the scenario
	preset string
	// Colour theme for frames and terminal output
	theme string
	// Extra PNG frame directory
	pngDir string
	// Bubble Tea progress view instead of status lines
	showProgress bool
	// Store the run under dataDir
	saveRun bool
	// Trajectory sampling stride for saved runs
	saveEvery int
	// Output file for export-json
	exportPath string
	// Terminal orbit preview in plot
	plotOrbits bool
	// Close approach distance that marks a run unstable
	closeApproach float64

	flagValues = config.DefaultConfig()
)

// main wires the cobra commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitgif",
		Short:         "render gravitational n-body orbits to animated gifs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitgif", "data directory for saved runs")

	renderCmd := &cobra.Command{
		Use:   "render [scenario]",
		Short: "simulate a scenario and write a gif",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	addConfigFlags(renderCmd)
	renderCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	renderCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration for the scenario")
	renderCmd.Flags().StringVar(&theme, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	renderCmd.Flags().StringVar(&pngDir, "png-dir", "", "also write every frame as png into this directory")
	renderCmd.Flags().BoolVar(&showProgress, "progress", false, "interactive progress view")
	renderCmd.Flags().BoolVar(&saveRun, "save", false, "store trajectory and metrics under --data")
	renderCmd.Flags().IntVar(&saveEvery, "save-every", 1, "store every n-th step")
	renderCmd.Flags().Float64Var(&closeApproach, "close", 0, "report stability against this close approach distance (0 = off)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list scenarios, their presets and colour themes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default (or preset) configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "write this preset instead of the defaults")
	configCmd.Flags().StringVar(&flagValues.Scenario, "scenario", config.DefaultScenario, "scenario of the preset")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and coordinates of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&plotOrbits, "orbits", true, "draw the orbits in braille")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&exportPath, "out", "o", "", "write to file instead of stdout")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "measure stepping and rendering throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}

	rootCmd.AddCommand(renderCmd, presetsCmd, configCmd, listCmd, plotCmd, exportJSONCmd, benchCmd)
	addStudyCommands(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagValues.Scenario, "scenario", config.DefaultScenario, "scenario ("+strings.Join(config.Scenarios, ", ")+")")
	f.Float64Var(&flagValues.Step, "step", config.DefaultStep, "seconds per step")
	f.IntVar(&flagValues.PreSimFrames, "pre-sim-frames", 0, "warm-up steps before recording")
	f.IntVar(&flagValues.TotalFrames, "frames", config.DefaultTotalFrames, "recorded steps (gif frames)")
	f.IntVar(&flagValues.ImageWidth, "width", config.DefaultImageSize, "output width in pixels")
	f.IntVar(&flagValues.ImageHeight, "height", config.DefaultImageSize, "output height in pixels")
	f.Float64Var(&flagValues.Zoom, "zoom", config.DefaultZoom, "pixels per world unit")
	f.IntVar(&flagValues.TailLength, "tail-length", config.DefaultTailLength, "trail points per body")
	f.Float64Var(&flagValues.TailWidth, "tail-width", config.DefaultTailWidth, "trail width in pixels")
	f.Float64Var(&flagValues.G, "g", config.DefaultG, "gravitational constant")
	f.IntVar(&flagValues.AliasScale, "alias-scale", config.DefaultAliasScale, "supersampling factor")
	f.Float64Var(&flagValues.BodyRadius, "radius", config.DefaultBodyRadius, "body radius in pixels")
	f.BoolVar(&flagValues.FollowCenter, "follow", false, "keep the first body centred")
	f.IntVar(&flagValues.FrameDelayMS, "delay", config.DefaultFrameDelayMS, "frame delay in ms")
	f.StringVar(&flagValues.Background, "background", "#ffffff", "background colour")
	f.StringVar(&flagValues.Foreground, "foreground", "#000000", "body and trail colour")
	f.StringSliceVar(&flagValues.BodyColors, "body-colors", nil, "per-body colours, comma separated")
	f.IntVar(&flagValues.Workers, "workers", 1, "frames rendered concurrently")
	f.StringVarP(&flagValues.Output, "output", "o", config.DefaultOutput, "gif path")
}

// applyFlags copies every explicitly set flag onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("scenario", func() { cfg.Scenario = flagValues.Scenario })
	set("step", func() { cfg.Step = flagValues.Step })
	set("pre-sim-frames", func() { cfg.PreSimFrames = flagValues.PreSimFrames })
	set("frames", func() { cfg.TotalFrames = flagValues.TotalFrames })
	set("width", func() { cfg.ImageWidth = flagValues.ImageWidth })
	set("height", func() { cfg.ImageHeight = flagValues.ImageHeight })
	set("zoom", func() { cfg.Zoom = flagValues.Zoom })
	set("tail-length", func() { cfg.TailLength = flagValues.TailLength })
	set("tail-width", func() { cfg.TailWidth = flagValues.TailWidth })
	set("g", func() { cfg.G = flagValues.G })
	set("alias-scale", func() { cfg.AliasScale = flagValues.AliasScale })
	set("radius", func() { cfg.BodyRadius = flagValues.BodyRadius })
	set("follow", func() { cfg.FollowCenter = flagValues.FollowCenter })
	set("delay", func() { cfg.FrameDelayMS = flagValues.FrameDelayMS })
	set("background", func() { cfg.Background = flagValues.Background })
	set("foreground", func() { cfg.Foreground = flagValues.Foreground })
	set("body-colors", func() { cfg.BodyColors = flagValues.BodyColors })
	set("workers", func() { cfg.Workers = flagValues.Workers })
	set("output", func() { cfg.Output = flagValues.Output })
}

// resolveConfig layers defaults, preset, config file, theme and flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, viz.Theme, error) {
	if len(args) > 0 {
		if cmd.Flags().Changed("scenario") && args[0] != flagValues.Scenario {
			return nil, viz.Theme{}, fmt.Errorf("scenario given twice: %s and %s", args[0], flagValues.Scenario)
		}
		flagValues.Scenario = args[0]
		if err := cmd.Flags().Set("scenario", args[0]); err != nil {
			return nil, viz.Theme{}, err
		}
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(flagValues.Scenario, preset)
		if cfg == nil {
			return nil, viz.Theme{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(flagValues.Scenario))
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, viz.Theme{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	th := viz.ThemePaper
	if theme != "" {
		var ok bool
		th, ok = viz.GetTheme(theme)
		if !ok {
			return nil, viz.Theme{}, fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
		}
		cfg.Background = th.Background
		cfg.Foreground = th.Foreground
		if len(th.Bodies) > 0 {
			cfg.BodyColors = th.Bodies
		}
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, viz.Theme{}, err
	}
	return cfg, th, nil
}
