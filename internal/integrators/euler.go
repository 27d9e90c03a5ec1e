package integrators

import "github.com/san-kum/orbitgif/internal/physics"

// SymplecticEuler advances a body set by one fixed step: velocities are
// updated from the pre-step positions first, then positions move with the
// updated velocities.
type SymplecticEuler struct {
	G  float64
	Dt float64
}

func NewSymplecticEuler(g, dt float64) *SymplecticEuler {
	return &SymplecticEuler{G: g, Dt: dt}
}

// Step returns the next body set. The input is not modified.
func (e *SymplecticEuler) Step(bodies []physics.Body) ([]physics.Body, error) {
	next := physics.Clone(bodies)

	for i := range next {
		v := next[i].Velocity
		for j := range bodies {
			if i == j {
				continue
			}
			// Increments are applied one body at a time, in index order,
			// against the frozen pre-step positions.
			d := bodies[j].Position.Sub(bodies[i].Position)
			dist := d.Magnitude()
			dir, err := d.Normalize()
			if err != nil {
				return nil, &physics.SingularityError{I: i, J: j}
			}
			acc := e.G * bodies[j].Mass / (dist * dist)
			v = v.Add(dir.Scale(acc * e.Dt))
		}
		next[i] = next[i].WithVelocity(v)
	}

	for i := range next {
		next[i] = next[i].Moved(next[i].Position.Add(next[i].Velocity.Scale(e.Dt)))
	}

	if err := physics.Validate(next); err != nil {
		return nil, err
	}
	return next, nil
}
