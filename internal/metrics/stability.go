package metrics

import (
	"math"

	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/sim"
)

// MinSeparation is the closest approach between any two bodies. Close
// encounters are where a fixed step loses accuracy.
type MinSeparation struct {
	name    string
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{
		name: "min_separation",
		min:  math.Inf(1),
	}
}

func (m *MinSeparation) Name() string {
	return m.name
}

func (m *MinSeparation) Observe(s sim.Snapshot) {
	m.samples++
	m.min = math.Min(m.min, physics.MinSeparation(s.Bodies))
}

// Value is 0 until a snapshot with at least two bodies has been seen.
func (m *MinSeparation) Value() float64 {
	if m.samples == 0 || math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// Stability is 1 while every pair of bodies has stayed at least threshold
// apart and drops to 0 for good once a closer approach is observed. A
// non-positive threshold never trips.
type Stability struct {
	name      string
	threshold float64
	tripped   bool
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap sim.Snapshot) {
	if s.tripped || s.threshold <= 0 {
		return
	}
	if physics.MinSeparation(snap.Bodies) < s.threshold {
		s.tripped = true
	}
}

func (s *Stability) Value() float64 {
	if s.tripped {
		return 0
	}
	return 1
}

// Stable reports whether no close approach has been seen.
func (s *Stability) Stable() bool { return !s.tripped }

func (s *Stability) Reset() {
	s.tripped = false
}
