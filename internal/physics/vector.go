package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is an immutable 2D vector. Every method returns a new value.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2(r2.Add(r2.Vec(v), r2.Vec(o))) }

func (v Vec2) Neg() Vec2 { return v.Scale(-1) }

func (v Vec2) Sub(o Vec2) Vec2 { return v.Add(o.Neg()) }

func (v Vec2) Scale(k float64) Vec2 { return Vec2(r2.Scale(k, r2.Vec(v))) }

func (v Vec2) Dot(o Vec2) float64 { return r2.Dot(r2.Vec(v), r2.Vec(o)) }

func (v Vec2) Magnitude() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Normalize returns v scaled to unit length. The zero vector has no
// direction and yields ErrZeroVector.
func (v Vec2) Normalize() (Vec2, error) {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}, ErrZeroVector
	}
	return v.Scale(1 / m), nil
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }
