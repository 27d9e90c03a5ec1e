// Package physics provides the value types of a gravitational point-mass
// simulation.
//
//   - [Vec2]: immutable 2D vector
//   - [Body]: snapshot of one mass (mass, radius, position, velocity, trail)
//   - [Trail]: bounded FIFO of past positions
//
// Scenario constructors ([FigureEight], [Lagrange], [Binary]) build the
// initial body sets, and [Energy], [Momentum] and [CenterOfMassVelocity]
// measure conserved quantities of a body set.
//
// # Value Semantics
//
// Nothing in this package mutates a Body after construction. Stepping a
// body set produces new Body values, and [Trail.Push] always allocates, so
// moving a body leaves the original and its trail untouched:
//
//	next := b.WithVelocity(v).Moved(b.Position.Add(v.Scale(dt)))
package physics
