package integrators

import (
	"testing"

	"github.com/san-kum/orbitgif/internal/physics"
)

func BenchmarkSymplecticEuler_FigureEight(b *testing.B) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.FigureEight(5, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next, err := integ.Step(bodies)
		if err != nil {
			b.Fatal(err)
		}
		bodies = next
	}
}

func BenchmarkSymplecticEuler_Lagrange(b *testing.B) {
	integ := NewSymplecticEuler(1, dt)
	bodies := physics.Lagrange(1, 1, 5, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next, err := integ.Step(bodies)
		if err != nil {
			b.Fatal(err)
		}
		bodies = next
	}
}
