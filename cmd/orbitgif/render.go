package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitgif/internal/config"
	"github.com/san-kum/orbitgif/internal/encode"
	"github.com/san-kum/orbitgif/internal/integrators"
	"github.com/san-kum/orbitgif/internal/metrics"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/render"
	"github.com/san-kum/orbitgif/internal/sim"
	"github.com/san-kum/orbitgif/internal/storage"
	"github.com/san-kum/orbitgif/internal/viz"
	"github.com/spf13/cobra"
)

func runRender(cmd *cobra.Command, args []string) error {
	cfg, th, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	return renderConfig(cmd.Context(), cfg, th)
}

// renderConfig runs one animation end to end: simulation, gif, optional
// png frames and saved run.
func renderConfig(ctx context.Context, cfg *config.Config, th viz.Theme) error {
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

	gifFile, err := encode.NewGIFFile(cfg.Output, pal, cfg.FrameDelay())
	if err != nil {
		return err
	}
	var sink sim.Sink = gifFile
	if pngDir != "" {
		frames, err := encode.NewPNGDir(pngDir)
		if err != nil {
			gifFile.Discard()
			return err
		}
		sink = encode.Multi{gifFile, frames}
	}

	s := sim.New(integrators.NewSymplecticEuler(cfg.G, cfg.Step), renderer)
	drift := metrics.NewEnergyDrift(cfg.G)
	s.AddMetric(drift)
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewMinSeparation())
	s.AddMetric(metrics.NewEnergy(cfg.G))
	summary := []string{"energy", "energy_drift", "momentum_drift", "min_separation"}
	if closeApproach > 0 {
		s.AddMetric(metrics.NewStability(closeApproach))
		summary = append(summary, "stability")
	}

	var recorder *storage.Recorder
	if saveRun {
		recorder = storage.NewRecorder(cfg.G, saveEvery)
		s.AddObserver(recorder)
	}

	name := cfg.Scenario
	if len(cfg.Bodies) > 0 {
		name = fmt.Sprintf("%d bodies", len(cfg.Bodies))
	}

	start := time.Now()
	var result *sim.Result
	if showProgress {
		result, err = runWithProgress(ctx, s, cfg, th, name, bodies, sink)
	} else {
		fmt.Fprintf(os.Stderr, "rendering %s: %d+%d steps at %dx%d...\n",
			name, cfg.PreSimFrames, cfg.TotalFrames, cfg.ImageWidth, cfg.ImageHeight)
		s.AddObserver(newStatusObserver(cfg.PreSimFrames+cfg.TotalFrames, drift))
		result, err = s.Run(ctx, bodies, sink, cfg.SimConfig())
	}
	elapsed := time.Since(start)

	if err != nil {
		return err
	}

	fmt.Println(viz.SuccessStyle.Render("wrote " + cfg.Output))
	fmt.Println(viz.KV("frames", result.Frames))
	fmt.Println(viz.KV("steps", result.StepsTaken))
	fmt.Println(viz.KV("elapsed", elapsed.Round(time.Millisecond)))
	if pngDir != "" {
		fmt.Println(viz.KV("png frames", pngDir))
	}
	fmt.Println("\nmetrics:")
	for _, m := range summary {
		fmt.Println(viz.KV("  "+m, fmt.Sprintf("%.6g", result.Metrics[m])))
	}

	if saveRun {
		st := storage.New(dataDir)
		runID, err := st.Save(storage.RunMetadata{
			Scenario:     cfg.Scenario,
			Step:         cfg.Step,
			G:            cfg.G,
			PreSimFrames: cfg.PreSimFrames,
			TotalFrames:  cfg.TotalFrames,
			Bodies:       len(bodies),
			Output:       cfg.Output,
			Elapsed:      elapsed,
			Metrics:      result.Metrics,
		}, recorder.Trajectory())
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Println(viz.KV("run id", runID))
	}
	return nil
}

// runWithProgress drives the simulation on a goroutine while a Bubble Tea
// program owns the terminal.
func runWithProgress(ctx context.Context, s *sim.Simulator, cfg *config.Config, th viz.Theme, name string, bodies []physics.Body, sink sim.Sink) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := cfg.PreSimFrames + cfg.TotalFrames
	p := tea.NewProgram(viz.NewProgress(name, cfg.PreSimFrames, cfg.TotalFrames, cancel, th), tea.WithOutput(os.Stderr))
	s.AddObserver(viz.NewProgressObserver(p.Send, cfg.G, total-1, 50*time.Millisecond))

	var (
		result *sim.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = s.Run(ctx, bodies, sink, cfg.SimConfig())
		p.Send(viz.DoneMsg{Err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	<-done
	return result, runErr
}

// statusObserver prints a line every tenth of the run. Metrics observe a
// snapshot before observers do, so drift is current.
type statusObserver struct {
	total int
	next  int
	drift *metrics.EnergyDrift
}

func newStatusObserver(total int, drift *metrics.EnergyDrift) *statusObserver {
	return &statusObserver{total: total, drift: drift}
}

func (o *statusObserver) OnStep(snap sim.Snapshot) {
	if o.total == 0 || snap.Step < 0 {
		return
	}
	pct := (snap.Step + 1) * 100 / o.total
	if pct < o.next {
		return
	}
	phase := "warm-up"
	if snap.Recording {
		phase = "recording"
	}
	fmt.Fprintf(os.Stderr, "  %s %3d%%  t=%.2f  drift=%.2e  %s\n",
		viz.ProgressBar(float64(pct)/100, 20), pct, snap.Time, o.drift.Current(), viz.Subtle.Render(phase))
	o.next = pct/10*10 + 10
}
