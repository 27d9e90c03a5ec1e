package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/orbitgif/internal/physics"
)

// SVGOptions controls TrajectorySVG. Colors are applied to paths in order
// and repeat when there are more paths than colours.
type SVGOptions struct {
	Width, Height int
	Background    string
	Colors        []string
	StrokeWidth   float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       800,
		Height:      800,
		Background:  "#ffffff",
		Colors:      []string{"#d62728", "#1f77b4", "#2ca02c", "#ff7f0e", "#9467bd"},
		StrokeWidth: 1.5,
	}
}

// TrajectorySVG writes one polyline per body path, fitted into the canvas
// with a 10% margin and equal scale on both axes. Screen y points down, as
// in the rendered frames.
func TrajectorySVG(w io.Writer, paths [][]physics.Vec2, opts SVGOptions) error {
	var all []physics.Vec2
	for _, p := range paths {
		all = append(all, p...)
	}
	if len(all) == 0 {
		return fmt.Errorf("export: no points")
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := math.Max(maxX-minX, 1e-9)
	rangeY := math.Max(maxY-minY, 1e-9)
	width, height := float64(opts.Width), float64(opts.Height)
	scale := 0.8 * math.Min(width/rangeX, height/rangeY)
	offX := (width - rangeX*scale) / 2
	offY := (height - rangeY*scale) / 2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background)

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		color := "#000000"
		if len(opts.Colors) > 0 {
			color = opts.Colors[i%len(opts.Colors)]
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="%.1f" d="`, color, opts.StrokeWidth)
		for k, p := range path {
			x := offX + (p.X-minX)*scale
			y := offY + (p.Y-minY)*scale
			if k == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		last := path[len(path)-1]
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, offX+(last.X-minX)*scale, offY+(last.Y-minY)*scale, 3*opts.StrokeWidth, color)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
