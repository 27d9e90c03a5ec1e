package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/orbitgif/internal/automation"
	"github.com/san-kum/orbitgif/internal/config"
	"github.com/san-kum/orbitgif/internal/export"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/storage"
	"github.com/san-kum/orbitgif/internal/viz"
	"github.com/spf13/cobra"
)

var (
	sweepDuration float64
	sweepMinDt    float64
	sweepMaxDt    float64
	sweepSteps    int

	mcTrials  int
	mcPerturb float64
	mcSteps   int
	mcSeed    int64
	mcEscape  float64
)

func addStudyCommands(root *cobra.Command) {
	batchCmd := &cobra.Command{
		Use:   "batch [script]",
		Short: "render every job of a yaml script",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&theme, "theme", "", "colour theme for progress and summaries")
	batchCmd.Flags().BoolVar(&saveRun, "save", false, "store every job under --data")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "energy drift across step sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepDuration, "time", 10, "simulated seconds per step size")
	sweepCmd.Flags().Float64Var(&sweepMinDt, "min-step", 1.0/480.0, "smallest step")
	sweepCmd.Flags().Float64Var(&sweepMaxDt, "max-step", 1.0/30.0, "largest step")
	sweepCmd.Flags().IntVar(&sweepSteps, "n", 6, "number of step sizes")

	stabilityCmd := &cobra.Command{
		Use:   "stability [scenario]",
		Short: "monte carlo stability under perturbed initial conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStability,
	}
	stabilityCmd.Flags().IntVar(&mcTrials, "trials", 50, "number of trials")
	stabilityCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.01, "max perturbation per component")
	stabilityCmd.Flags().IntVar(&mcSteps, "steps", 6000, "steps per trial")
	stabilityCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 = time based)")
	stabilityCmd.Flags().Float64Var(&mcEscape, "escape", 5, "escape radius from the centre of mass")
	stabilityCmd.Flags().Float64Var(&closeApproach, "close", 0, "close approach distance that marks a trial unstable (0 = off)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the orbits of a saved run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&exportPath, "out", "o", "", "write to file instead of stdout")

	root.AddCommand(batchCmd, sweepCmd, stabilityCmd, exportSVGCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	th := viz.ThemePaper
	if theme != "" {
		var ok bool
		if th, ok = viz.GetTheme(theme); !ok {
			return fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
		}
	}

	fmt.Println(viz.TitleStyle.Render(script.Name))
	if script.Description != "" {
		fmt.Println(viz.Subtle.Render(script.Description))
	}
	return automation.RunScript(cmd.Context(), script, func(ctx context.Context, name string, cfg *config.Config) error {
		fmt.Println(viz.Separator(40))
		fmt.Println(viz.KV("job", name))
		return renderConfig(ctx, cfg, th)
	})
}

func scenarioBodies(args []string) (*config.Config, []physics.Body, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}
	bodies, err := cfg.InitialBodies()
	return cfg, bodies, err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, bodies, err := scenarioBodies(args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Bodies:   bodies,
		G:        cfg.G,
		Duration: sweepDuration,
		DtMin:    sweepMinDt,
		DtMax:    sweepMaxDt,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	fmt.Printf("step size sweep for %s (%.1fs simulated)\n\n", cfg.Scenario, sweepDuration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tMIN SEP\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%.5f\t%d\t%.3e\t%.1e\t%.4f\t%s\n", r.Dt, r.Steps, r.EnergyDrift, r.MomentumDrift, r.MinSeparation, status)
	}
	return w.Flush()
}

func runStability(cmd *cobra.Command, args []string) error {
	cfg, bodies, err := scenarioBodies(args)
	if err != nil {
		return err
	}

	fmt.Printf("running %d perturbed %s trials...\n", mcTrials, cfg.Scenario)
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:          bodies,
		G:             cfg.G,
		Dt:            cfg.Step,
		Steps:         mcSteps,
		Perturbation:  mcPerturb,
		NumTrials:     mcTrials,
		Seed:          mcSeed,
		EscapeRadius:  mcEscape,
		CloseApproach: closeApproach,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	drifts := make([]float64, len(results))
	for i, r := range results {
		drifts[i] = r.EnergyDrift
	}

	fmt.Println(viz.KV("stable", stable))
	fmt.Println(viz.KV("unstable", unstable))
	if len(results) > 0 {
		fmt.Println(viz.KV("stable ratio", fmt.Sprintf("%.1f%%", 100*float64(stable)/float64(len(results)))))
		fmt.Println(viz.LabelStyle.Render("drift by trial") + viz.SparklineChart(drifts, 50))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	if _, err := st.Load(runID); err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	paths := bodyPaths(traj)

	out := os.Stdout
	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.TrajectorySVG(out, paths, export.DefaultSVGOptions())
}
