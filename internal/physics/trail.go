package physics

// Trail is a bounded history of past positions, oldest first. The zero
// value is an empty trail that retains nothing.
type Trail struct {
	points []Vec2
	max    int
}

func NewTrail(max int) Trail {
	if max < 0 {
		max = 0
	}
	return Trail{max: max}
}

// Push returns a new trail with p appended, evicting the oldest entries
// once the bound is exceeded. The receiver is left untouched and the result
// never shares storage with it.
func (t Trail) Push(p Vec2) Trail {
	n := len(t.points) + 1
	start := 0
	if n > t.max {
		start = n - t.max
	}
	keep := n - start
	points := make([]Vec2, 0, keep)
	if start < len(t.points) {
		points = append(points, t.points[start:]...)
	}
	if keep > 0 {
		points = append(points, p)
	}
	return Trail{points: points, max: t.max}
}

func (t Trail) Len() int { return len(t.points) }
func (t Trail) Max() int { return t.max }

// At returns the i-th point, 0 being the oldest.
func (t Trail) At(i int) Vec2 { return t.points[i] }

// Points returns a copy of the retained positions, oldest first.
func (t Trail) Points() []Vec2 {
	out := make([]Vec2, len(t.points))
	copy(out, t.points)
	return out
}
