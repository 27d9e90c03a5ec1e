package storage

import (
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/sim"
)

// Trajectory holds sampled body states. Each row of States is
// x, y, vx, vy for every body in index order.
type Trajectory struct {
	Bodies int
	Times  []float64
	States [][]float64
	Energy []float64
}

func (t *Trajectory) Len() int { return len(t.Times) }

// Column returns one state component of body i over time. comp is 0..3 for
// x, y, vx, vy.
func (t *Trajectory) Column(i, comp int) []float64 {
	out := make([]float64, 0, len(t.States))
	k := i*4 + comp
	for _, row := range t.States {
		if k < len(row) {
			out = append(out, row[k])
		}
	}
	return out
}

// Recorder is a simulation observer that samples the trajectory every
// Every steps, plus the initial state.
type Recorder struct {
	g     float64
	every int
	traj  Trajectory
}

func NewRecorder(g float64, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{g: g, every: every}
}

func (r *Recorder) OnStep(s sim.Snapshot) {
	if s.Step >= 0 && (s.Step+1)%r.every != 0 {
		return
	}
	r.traj.Bodies = len(s.Bodies)
	r.traj.Times = append(r.traj.Times, s.Time)
	r.traj.States = append(r.traj.States, flatten(s.Bodies))
	r.traj.Energy = append(r.traj.Energy, physics.Energy(s.Bodies, r.g))
}

func (r *Recorder) Trajectory() *Trajectory { return &r.traj }

func flatten(bodies []physics.Body) []float64 {
	row := make([]float64, 0, len(bodies)*4)
	for _, b := range bodies {
		row = append(row, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
	}
	return row
}
