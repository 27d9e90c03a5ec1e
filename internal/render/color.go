package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a "#rrggbb" or "#rgb" colour.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("render: bad colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Blend interpolates from a to b in CIE L*a*b*, t in [0,1]. The end points
// come back exactly, without a round trip through Lab.
func Blend(a, b color.Color, t float64) color.RGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	c := ca.BlendLab(cb, t).Clamped()
	switch {
	case t <= 0:
		c = ca
	case t >= 1:
		c = cb
	}
	r, g, bl := c.RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}
