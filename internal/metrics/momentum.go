package metrics

import (
	"math"

	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/sim"
)

// MomentumDrift tracks how far the centre-of-mass velocity moves from its
// first observed value. Pairwise gravity conserves it exactly, so anything
// above rounding noise points at an integration bug.
type MomentumDrift struct {
	name     string
	initial  physics.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{
		name: "momentum_drift",
	}
}

func (m *MomentumDrift) Name() string {
	return m.name
}

func (m *MomentumDrift) Observe(s sim.Snapshot) {
	v := physics.CenterOfMassVelocity(s.Bodies)
	if m.samples == 0 {
		m.initial = v
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, v.Sub(m.initial).Magnitude())
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = physics.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
