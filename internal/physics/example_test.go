package physics_test

import (
	"fmt"

	"github.com/san-kum/orbitgif/internal/physics"
)

func ExampleBody_Moved() {
	const dt = 0.5
	b := physics.NewBody(1, 1, physics.V(0, 0), physics.V(0, 0), 3)
	v := physics.V(1, 2)

	next := b.WithVelocity(v).Moved(b.Position.Add(v.Scale(dt)))

	fmt.Println(next.Position.X, next.Position.Y, next.Trail().Len())
	fmt.Println(b.Position.X, b.Position.Y, b.Trail().Len())
	// Output:
	// 0.5 1 1
	// 0 0 0
}
