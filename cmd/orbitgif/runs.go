package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitgif/internal/config"
	"github.com/san-kum/orbitgif/internal/encode"
	"github.com/san-kum/orbitgif/internal/integrators"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/render"
	"github.com/san-kum/orbitgif/internal/sim"
	"github.com/san-kum/orbitgif/internal/storage"
	"github.com/san-kum/orbitgif/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := config.Scenarios
	if len(args) > 0 {
		scenarios = args
	}

	for _, sc := range scenarios {
		presets := config.ListPresets(sc)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", sc)
			continue
		}
		fmt.Println(viz.TitleStyle.Render(sc))
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}

	if len(args) == 0 {
		fmt.Println(viz.TitleStyle.Render("themes"))
		for _, name := range viz.ThemeNames() {
			th, _ := viz.GetTheme(name)
			fmt.Printf("  %-8s %s on %s\n", name, th.Foreground, th.Background)
		}
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(flagValues.Scenario, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(flagValues.Scenario))
		}
	}

	if len(args) == 0 {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Println(viz.SuccessStyle.Render("wrote " + args[0]))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tFRAMES\tSTEP\tDRIFT\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d+%d\t%.4fs\t%.2e\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.PreSimFrames,
			run.TotalFrames,
			run.Step,
			run.Metrics["energy_drift"],
			run.Output,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if traj.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", traj.Len())

	fmt.Println(asciigraph.Plot(traj.Energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))
	fmt.Println()

	for comp, caption := range []string{"x", "y"} {
		series := make([][]float64, traj.Bodies)
		for i := range series {
			series[i] = traj.Column(i, comp)
		}
		fmt.Println(asciigraph.PlotMany(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(seriesColors(traj.Bodies)...),
			asciigraph.Caption(caption+" per body"),
		))
		fmt.Println()
	}

	if plotOrbits {
		fmt.Println(viz.PanelStyle.Render(viz.OrbitPlot(bodyPaths(traj), 60, 20)))
	}

	return nil
}

func seriesColors(n int) []asciigraph.AnsiColor {
	palette := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Cyan}
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if exportPath != "" {
		return storage.ExportJSON(exportPath, meta, traj)
	}
	return storage.WriteJSON(os.Stdout, meta, traj)
}

// benchScenario renders a short run of the scenario into a discarded gif
// for several worker counts.
func benchScenario(cmd *cobra.Command, args []string) error {
	scenario := config.DefaultScenario
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Scenario = scenario
	cfg.TotalFrames = 120
	bodies, err := cfg.InitialBodies()
	if err != nil {
		return err
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(opts, cfg.Projector())
	if err != nil {
		return err
	}
	pal, err := cfg.Palette()
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d frames, %dx%d, alias %d)\n\n",
		scenario, cfg.TotalFrames, cfg.ImageWidth, cfg.ImageHeight, cfg.AliasScale)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tFRAMES/SEC")

	for _, workers := range []int{1, 2, 4, 8} {
		cfg.Workers = workers
		s := sim.New(integrators.NewSymplecticEuler(cfg.G, cfg.Step), renderer)

		start := time.Now()
		result, err := s.Run(cmd.Context(), bodies, encode.NewGIF(io.Discard, pal, cfg.FrameDelay()), cfg.SimConfig())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%v\t%.1f\n", workers, elapsed.Round(time.Millisecond), float64(result.Frames)/elapsed.Seconds())
	}

	// stepping alone, without rendering
	stepper := integrators.NewSymplecticEuler(cfg.G, cfg.Step)
	x := bodies
	const steps = 100000
	start := time.Now()
	for i := 0; i < steps; i++ {
		if x, err = stepper.Step(x); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	fmt.Fprintf(w, "\nstep only\t%v\t%.0f steps/sec\n", elapsed.Round(time.Millisecond), steps/elapsed.Seconds())

	return w.Flush()
}

// bodyPaths turns a stored trajectory into one position path per body.
func bodyPaths(traj *storage.Trajectory) [][]physics.Vec2 {
	paths := make([][]physics.Vec2, traj.Bodies)
	for i := range paths {
		xs, ys := traj.Column(i, 0), traj.Column(i, 1)
		for k := range xs {
			paths[i] = append(paths[i], physics.V(xs[k], ys[k]))
		}
	}
	return paths
}
