package physics

import "math"

// FigureEight returns the periodic three-body figure-eight orbit for unit
// masses and G = 1.
func FigureEight(radius float64, tailLength int) []Body {
	v := V(0.466203685, 0.43236573)
	return []Body{
		NewBody(1, radius, V(0.97000436, -0.24308753), v, tailLength),
		NewBody(1, radius, V(-0.97000436, 0.24308753), v, tailLength),
		NewBody(1, radius, V(0, 0), V(-0.93240737, -0.86473146), tailLength),
	}
}

// Lagrange places three equal masses on an equilateral triangle of
// circumradius r, rotating rigidly about their common centre.
func Lagrange(g, r, radius float64, tailLength int) []Body {
	// |a| = g*m*sqrt(3)/(3 r^2) towards the centre for side r*sqrt(3).
	speed := math.Sqrt(g / (math.Sqrt(3) * r))
	bodies := make([]Body, 3)
	for i := range bodies {
		angle := float64(i) * 2 * math.Pi / 3
		pos := V(r*math.Cos(angle), r*math.Sin(angle))
		vel := V(-math.Sin(angle)*speed, math.Cos(angle)*speed)
		bodies[i] = NewBody(1, radius, pos, vel, tailLength)
	}
	return bodies
}

// Binary returns two unit masses separated by d on a circular orbit.
func Binary(g, d, radius float64, tailLength int) []Body {
	speed := math.Sqrt(g / (2 * d))
	return []Body{
		NewBody(1, radius, V(d/2, 0), V(0, speed), tailLength),
		NewBody(1, radius, V(-d/2, 0), V(0, -speed), tailLength),
	}
}
