package encode

import (
	"image/color"

	"github.com/san-kum/orbitgif/internal/render"
)

// RampPalette builds a palette of at most size entries holding, for each
// ink, an evenly spaced ramp from the background to that ink. Anti-aliased
// frames drawn with those colours quantize without visible banding.
func RampPalette(bg color.Color, inks []color.Color, size int) color.Palette {
	if size < 2 {
		size = 2
	}
	if len(inks) == 0 {
		inks = []color.Color{color.Black}
	}

	steps := (size - 1) / len(inks)
	if steps < 1 {
		steps = 1
		inks = inks[:size-1]
	}

	pal := color.Palette{render.Blend(bg, bg, 0)}
	for _, ink := range inks {
		for i := 1; i <= steps; i++ {
			pal = append(pal, render.Blend(bg, ink, float64(i)/float64(steps)))
		}
	}
	return pal
}
