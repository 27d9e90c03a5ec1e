package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/orbitgif/internal/integrators"
	"github.com/san-kum/orbitgif/internal/metrics"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/sim"
)

var ErrInvalidSweep = errors.New("automation: invalid sweep")

// integrate runs steps without rendering and feeds every snapshot to ms.
func integrate(ctx context.Context, bodies []physics.Body, g, dt float64, steps int, ms ...sim.Metric) ([]physics.Body, error) {
	stepper := integrators.NewSymplecticEuler(g, dt)
	for _, m := range ms {
		m.Reset()
		m.Observe(sim.Snapshot{Step: -1, Bodies: bodies})
	}

	x := bodies
	for i := 0; i < steps; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return x, err
			}
		}
		next, err := stepper.Step(x)
		if err != nil {
			return x, &sim.SimulationError{Step: i, Time: float64(i) * dt, Wrapped: err}
		}
		x = next
		snap := sim.Snapshot{Step: i, Time: float64(i+1) * dt, Bodies: x}
		for _, m := range ms {
			m.Observe(snap)
		}
	}
	return x, nil
}

// ParameterSweep integrates the same bodies for a fixed simulated duration
// at NumSteps step sizes between DtMin and DtMax.
type ParameterSweep struct {
	Bodies   []physics.Body
	G        float64
	Duration float64
	DtMin    float64
	DtMax    float64
	NumSteps int
}

type SweepResult struct {
	Dt            float64
	Steps         int
	EnergyDrift   float64
	MomentumDrift float64
	MinSeparation float64
	Err           error
}

func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	switch {
	case !(sweep.DtMin > 0) || math.IsInf(sweep.DtMin, 0):
		return nil, fmt.Errorf("%w: min step must be positive, got %g", ErrInvalidSweep, sweep.DtMin)
	case !(sweep.DtMax >= sweep.DtMin) || math.IsInf(sweep.DtMax, 0):
		return nil, fmt.Errorf("%w: max step %g below min step %g", ErrInvalidSweep, sweep.DtMax, sweep.DtMin)
	case !(sweep.Duration >= 0) || math.IsInf(sweep.Duration, 0):
		return nil, fmt.Errorf("%w: duration must be non-negative, got %g", ErrInvalidSweep, sweep.Duration)
	}

	n := max(sweep.NumSteps, 1)
	results := make([]SweepResult, 0, n)

	dtStep := 0.0
	if n > 1 {
		dtStep = (sweep.DtMax - sweep.DtMin) / float64(n-1)
	}

	for i := 0; i < n; i++ {
		dt := sweep.DtMin + float64(i)*dtStep
		steps := int(math.Round(sweep.Duration / dt))

		drift := metrics.NewEnergyDrift(sweep.G)
		mom := metrics.NewMomentumDrift()
		sep := metrics.NewMinSeparation()
		_, err := integrate(ctx, sweep.Bodies, sweep.G, dt, steps, drift, mom, sep)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		results = append(results, SweepResult{
			Dt:            dt,
			Steps:         steps,
			EnergyDrift:   drift.Value(),
			MomentumDrift: mom.Value(),
			MinSeparation: sep.Value(),
			Err:           err,
		})
	}

	return results, nil
}

// MonteCarloConfig perturbs every position and velocity component of Base
// uniformly by up to Perturbation and integrates each trial for Steps.
type MonteCarloConfig struct {
	Base         []physics.Body
	G            float64
	Dt           float64
	Steps        int
	Perturbation float64
	NumTrials    int
	Seed         int64
	// EscapeRadius marks a trial unstable once any body is farther than
	// this from the centre of mass.
	EscapeRadius float64
	// DriftLimit marks a trial unstable once the relative energy drift
	// exceeds it.
	DriftLimit float64
	// CloseApproach marks a trial unstable once any two bodies come closer
	// than this.
	CloseApproach float64
}

type MonteCarloResult struct {
	TrialID       int
	Initial       []physics.Body
	Final         []physics.Body
	EnergyDrift   float64
	MinSeparation float64
	Stable        bool
	Err           error
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func() float64 { return (rng.Float64() - 0.5) * 2 * cfg.Perturbation }

	for trial := 0; trial < cfg.NumTrials; trial++ {
		initial := physics.Clone(cfg.Base)
		for i, b := range initial {
			pos := b.Position.Add(physics.V(jitter(), jitter()))
			vel := b.Velocity.Add(physics.V(jitter(), jitter()))
			initial[i] = physics.NewBody(b.Mass, b.Radius, pos, vel, 0).WithColor(b.Color)
		}

		drift := metrics.NewEnergyDrift(cfg.G)
		sep := metrics.NewMinSeparation()
		approach := metrics.NewStability(cfg.CloseApproach)
		final, err := integrate(ctx, initial, cfg.G, cfg.Dt, cfg.Steps, drift, sep, approach)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		stable := err == nil && approach.Stable()
		if stable && cfg.DriftLimit > 0 && drift.Value() > cfg.DriftLimit {
			stable = false
		}
		if stable && cfg.EscapeRadius > 0 {
			com := physics.CenterOfMass(final)
			for _, b := range final {
				if b.Position.Sub(com).Magnitude() > cfg.EscapeRadius {
					stable = false
					break
				}
			}
		}

		results = append(results, MonteCarloResult{
			TrialID:       trial,
			Initial:       initial,
			Final:         final,
			EnergyDrift:   drift.Value(),
			MinSeparation: sep.Value(),
			Stable:        stable,
			Err:           err,
		})
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
