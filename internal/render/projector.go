package render

import "github.com/san-kum/orbitgif/internal/physics"

// Projector maps simulation space to output pixel space.
type Projector struct {
	Zoom          float64
	Width, Height int
	// FollowCenter re-centres the view on the reference position passed to
	// WorldToScreen.
	FollowCenter bool
}

func (p Projector) origin() physics.Vec2 {
	return physics.V(float64(p.Width)/2, float64(p.Height)/2)
}

// WorldToScreen returns the pixel position of world point w. center is only
// used when FollowCenter is set.
func (p Projector) WorldToScreen(w, center physics.Vec2) physics.Vec2 {
	if p.FollowCenter {
		w = w.Sub(center)
	}
	return w.Scale(p.Zoom).Add(p.origin())
}
