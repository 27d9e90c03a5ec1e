package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orbitgif/internal/physics"
)

const dt = 1.0 / 60.0

func TestSymplecticEuler_FirstStepRegression(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.FigureEight(5, 100)

	next, err := integ.Step(bodies)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// Bodies 1 and 2 pull body 3 symmetrically, so its velocity is
	// unchanged and it moves by exactly vel * dt.
	wantVel := physics.V(-0.93240737, -0.86473146)
	wantPos := physics.V(-0.015540122833333333, -0.014412191)
	got := next[2]
	if got.Velocity.Sub(wantVel).Magnitude() > 1e-12 {
		t.Errorf("velocity = %v, want %v", got.Velocity, wantVel)
	}
	if got.Position.Sub(wantPos).Magnitude() > 1e-12 {
		t.Errorf("position = %v, want %v", got.Position, wantPos)
	}
	if got.Position.Sub(got.Velocity.Scale(dt)).Magnitude() > 1e-15 {
		t.Errorf("position must equal updated velocity * dt, got %v", got.Position)
	}

	wantPos0 := physics.V(0.977437614350082, -0.23579702910835554)
	wantVel0 := physics.V(0.44599526100491826, 0.4374300534986667)
	if next[0].Position.Sub(wantPos0).Magnitude() > 1e-12 {
		t.Errorf("body 1 position = %v, want %v", next[0].Position, wantPos0)
	}
	if next[0].Velocity.Sub(wantVel0).Magnitude() > 1e-12 {
		t.Errorf("body 1 velocity = %v, want %v", next[0].Velocity, wantVel0)
	}
}

func TestSymplecticEuler_DoesNotMutateInput(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.FigureEight(5, 100)
	before := physics.Clone(bodies)

	if _, err := integ.Step(bodies); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	for i := range bodies {
		if bodies[i].Position != before[i].Position || bodies[i].Velocity != before[i].Velocity {
			t.Errorf("body %d mutated", i)
		}
		if bodies[i].Trail().Len() != 0 {
			t.Errorf("body %d trail mutated", i)
		}
	}
}

func TestSymplecticEuler_TrailRecordsPreMovePosition(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.FigureEight(5, 3)

	history := [][]physics.Vec2{}
	for step := 0; step < 10; step++ {
		pos := make([]physics.Vec2, len(bodies))
		for i, b := range bodies {
			pos[i] = b.Position
		}
		history = append(history, pos)

		var err error
		bodies, err = integ.Step(bodies)
		if err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
	}

	for i, b := range bodies {
		tr := b.Trail()
		if tr.Len() != 3 {
			t.Fatalf("body %d: expected 3 trail points, got %d", i, tr.Len())
		}
		for k := 0; k < 3; k++ {
			want := history[7+k][i]
			if tr.At(k) != want {
				t.Errorf("body %d trail[%d] = %v, want %v", i, k, tr.At(k), want)
			}
		}
	}
}

func TestSymplecticEuler_TrailBound(t *testing.T) {
	for _, tail := range []int{0, 1, 7, 100} {
		integ := NewSymplecticEuler(1, dt)
		bodies := physics.FigureEight(5, tail)
		for step := 0; step < 120; step++ {
			var err error
			bodies, err = integ.Step(bodies)
			if err != nil {
				t.Fatalf("tail=%d step %d: %v", tail, step, err)
			}
			for i, b := range bodies {
				if b.Trail().Len() > tail {
					t.Fatalf("tail=%d step %d body %d: trail length %d", tail, step, i, b.Trail().Len())
				}
			}
		}
	}
}

func TestSymplecticEuler_CenterOfMassVelocity(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.FigureEight(5, 10)
	// Give the system a drift so the invariant is non-trivial.
	for i := range bodies {
		bodies[i] = bodies[i].WithVelocity(bodies[i].Velocity.Add(physics.V(0.1, -0.05)))
	}
	v0 := physics.CenterOfMassVelocity(bodies)

	for step := 0; step < 600; step++ {
		var err error
		bodies, err = integ.Step(bodies)
		if err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
		if d := physics.CenterOfMassVelocity(bodies).Sub(v0).Magnitude(); d > 1e-12 {
			t.Fatalf("step %d: centre-of-mass velocity drifted by %g", step, d)
		}
	}
}

func TestSymplecticEuler_EnergyDrift(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.FigureEight(5, 100)
	e0 := physics.Energy(bodies, 1)

	maxDrift := 0.0
	for step := 0; step < 600; step++ {
		var err error
		bodies, err = integ.Step(bodies)
		if err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
		drift := math.Abs(physics.Energy(bodies, 1)-e0) / math.Abs(e0)
		maxDrift = math.Max(maxDrift, drift)
	}

	if maxDrift > 0.01 {
		t.Errorf("energy drift %.4f exceeds 1%%", maxDrift)
	}
}

func TestSymplecticEuler_Singularity(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := []physics.Body{
		physics.NewBody(1, 1, physics.V(0, 0), physics.V(0, 0), 5),
		physics.NewBody(1, 1, physics.V(1, 1), physics.V(0, 0), 5),
		physics.NewBody(1, 1, physics.V(1, 1), physics.V(0, 0), 5),
	}

	_, err := integ.Step(bodies)
	if !errors.Is(err, physics.ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}

	var se *physics.SingularityError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SingularityError, got %T", err)
	}
	if se.I != 1 || se.J != 2 {
		t.Errorf("expected pair (1,2), got (%d,%d)", se.I, se.J)
	}
}

func TestSymplecticEuler_InvalidState(t *testing.T) {
	integ := NewSymplecticEuler(1, dt)
	bodies := []physics.Body{
		physics.NewBody(1, 1, physics.V(0, 0), physics.V(math.Inf(1), 0), 5),
		physics.NewBody(1, 1, physics.V(1, 0), physics.V(0, 0), 5),
	}

	if _, err := integ.Step(bodies); !errors.Is(err, physics.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
