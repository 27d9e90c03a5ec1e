package sim

import (
	"fmt"
	"image"

	"github.com/san-kum/orbitgif/internal/physics"
)

// Stepper advances a body set by one fixed time step.
type Stepper interface {
	Step(bodies []physics.Body) ([]physics.Body, error)
}

// Renderer turns a body set into a frame. Implementations used with
// Config.Workers > 1 must be safe for concurrent use.
type Renderer interface {
	Render(bodies []physics.Body) (image.Image, error)
}

// Sink receives frames in step order; Close finalizes the output.
type Sink interface {
	Append(img image.Image) error
	Close() error
}

// Snapshot is the body set after a step. Step is -1 for the initial state.
// Bodies must not be modified.
type Snapshot struct {
	Step      int
	Time      float64
	Recording bool
	Bodies    []physics.Body
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnStep(s Snapshot) { f(s) }

type Config struct {
	Dt           float64
	PreSimFrames int
	TotalFrames  int
	// Workers > 1 renders recorded frames in batches of that size
	// concurrently. Frames still reach the sink in step order.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Dt:           1.0 / 60.0,
		PreSimFrames: 0,
		TotalFrames:  600,
		Workers:      1,
	}
}

type Result struct {
	Bodies     []physics.Body
	StepsTaken int
	Frames     int
	Metrics    map[string]float64
}

// SimulationError wraps a failure with the step it happened at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
