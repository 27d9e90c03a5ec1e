package physics

import (
	"fmt"
	"image/color"
)

// Body is an immutable snapshot of one point mass.
type Body struct {
	Mass     float64
	Radius   float64
	Position Vec2
	Velocity Vec2
	// Color overrides the renderer's foreground when non-nil.
	Color color.Color

	trail Trail
}

// NewBody creates a body with an empty trail bounded to tailLength points.
func NewBody(mass, radius float64, pos, vel Vec2, tailLength int) Body {
	return Body{
		Mass:     mass,
		Radius:   radius,
		Position: pos,
		Velocity: vel,
		trail:    NewTrail(tailLength),
	}
}

func (b Body) Trail() Trail { return b.trail }

func (b Body) WithVelocity(v Vec2) Body {
	b.Velocity = v
	return b
}

// Moved returns the body displaced to pos, with the current position
// recorded as the newest trail point.
func (b Body) Moved(pos Vec2) Body {
	b.trail = b.trail.Push(b.Position)
	b.Position = pos
	return b
}

func (b Body) WithColor(c color.Color) Body {
	b.Color = c
	return b
}

func (b Body) IsValid() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite()
}

func (b Body) String() string {
	return fmt.Sprintf("body{m=%g pos=%v vel=%v trail=%d}", b.Mass, b.Position, b.Velocity, b.trail.Len())
}

// Clone copies a body set. Bodies are values, so the copy is independent.
func Clone(bodies []Body) []Body {
	out := make([]Body, len(bodies))
	copy(out, bodies)
	return out
}

// Validate returns ErrInvalidState if any body holds a non-finite value.
func Validate(bodies []Body) error {
	for i, b := range bodies {
		if !b.IsValid() {
			return fmt.Errorf("%w: body %d", ErrInvalidState, i)
		}
	}
	return nil
}
