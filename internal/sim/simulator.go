package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/orbitgif/internal/physics"
)

// Simulator runs a warm-up phase of unrendered steps followed by a
// recording phase in which every step is rendered and sent to a sink.
type Simulator struct {
	stepper   Stepper
	renderer  Renderer
	metrics   []Metric
	observers []Observer
}

func New(stepper Stepper, renderer Renderer) *Simulator {
	return &Simulator{
		stepper:   stepper,
		renderer:  renderer,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates PreSimFrames + TotalFrames steps from x0. The sink is
// closed only when every frame was appended; on any error it is left
// unclosed and, if it has a Discard method, discarded so no partial output
// remains.
func (s *Simulator) Run(ctx context.Context, x0 []physics.Body, sink Sink, cfg Config) (*Result, error) {
	result, err := s.run(ctx, x0, sink, cfg)
	if err == nil {
		return result, nil
	}
	if d, ok := sink.(interface{ Discard() error }); ok {
		if derr := d.Discard(); derr != nil {
			err = errors.Join(err, fmt.Errorf("discarding partial output: %w", derr))
		}
	}
	return result, err
}

func (s *Simulator) run(ctx context.Context, x0 []physics.Body, sink Sink, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) == 0 {
		return nil, fmt.Errorf("no bodies to simulate")
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}

	x := physics.Clone(x0)
	t := 0.0
	result.Bodies = x
	batch := make([]Snapshot, 0, workers)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		frames, err := renderBatch(ctx, s.renderer, batch)
		if err != nil {
			return err
		}
		for _, img := range frames {
			if err := sink.Append(img); err != nil {
				return err
			}
			result.Frames++
		}
		batch = batch[:0]
		return nil
	}

	s.notify(Snapshot{Step: -1, Time: t, Bodies: x})

	total := cfg.PreSimFrames + cfg.TotalFrames
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next, err := s.stepper.Step(x)
		if err != nil {
			return result, &SimulationError{Step: i, Time: t, Wrapped: err}
		}

		x = next
		t += cfg.Dt
		result.StepsTaken++
		result.Bodies = x

		snap := Snapshot{Step: i, Time: t, Recording: i >= cfg.PreSimFrames, Bodies: x}
		s.notify(snap)

		if !snap.Recording {
			continue
		}
		batch = append(batch, snap)
		if len(batch) == workers {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if err := sink.Close(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Simulator) notify(snap Snapshot) {
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.PreSimFrames < 0 {
		return fmt.Errorf("pre-sim frames must be non-negative, got %d", cfg.PreSimFrames)
	}
	if cfg.TotalFrames < 0 {
		return fmt.Errorf("total frames must be non-negative, got %d", cfg.TotalFrames)
	}
	return nil
}
