package physics

import "math"

// Energy returns the total kinetic plus gravitational potential energy of
// the set under gravitational constant g.
func Energy(bodies []Body, g float64) float64 {
	ke := 0.0
	pe := 0.0

	for i, bi := range bodies {
		ke += 0.5 * bi.Mass * bi.Velocity.Dot(bi.Velocity)

		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Position.Sub(bi.Position).Magnitude()
			pe -= g * bi.Mass * bodies[j].Mass / r
		}
	}

	return ke + pe
}

func Momentum(bodies []Body) Vec2 {
	var p Vec2
	for _, b := range bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

func TotalMass(bodies []Body) float64 {
	m := 0.0
	for _, b := range bodies {
		m += b.Mass
	}
	return m
}

// CenterOfMassVelocity is the mass-weighted mean velocity. It is invariant
// for a closed system.
func CenterOfMassVelocity(bodies []Body) Vec2 {
	m := TotalMass(bodies)
	if m == 0 {
		return Vec2{}
	}
	return Momentum(bodies).Scale(1 / m)
}

func CenterOfMass(bodies []Body) Vec2 {
	m := TotalMass(bodies)
	if m == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, b := range bodies {
		c = c.Add(b.Position.Scale(b.Mass))
	}
	return c.Scale(1 / m)
}

func AngularMomentum(bodies []Body) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass * (b.Position.X*b.Velocity.Y - b.Position.Y*b.Velocity.X)
	}
	return L
}

// MinSeparation returns the smallest pairwise distance, or +Inf for fewer
// than two bodies.
func MinSeparation(bodies []Body) float64 {
	d := math.Inf(1)
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			d = math.Min(d, bodies[j].Position.Sub(bodies[i].Position).Magnitude())
		}
	}
	return d
}
