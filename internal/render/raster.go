package render

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/orbitgif/internal/physics"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// canvas rasterizes anti-aliased shapes onto an RGBA image. Each shape is
// rendered into a coverage mask covering the part of its bounding box that
// overlaps the image, so mask memory never exceeds the canvas size.
type canvas struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	mask  []uint8
	dirty bool
}

func newCanvas(w, h int, bg color.Color) *canvas {
	z := vector.NewRasterizer(0, 0)
	z.DrawOp = xdraw.Src
	c := &canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), z: z}
	c.clear(bg)
	return c
}

// fill rasterizes the closed path emitted by trace over the box [min, max]
// clipped to the image and paints it with col. trace receives the clipped
// origin, which it must subtract from every point it emits; the rasterizer
// clips whatever falls outside.
func (c *canvas) fill(min, max physics.Vec2, col color.Color, trace func(z *vector.Rasterizer, origin physics.Vec2)) {
	b := c.img.Bounds()
	if max.X <= float64(b.Min.X) || max.Y <= float64(b.Min.Y) ||
		min.X >= float64(b.Max.X) || min.Y >= float64(b.Max.Y) {
		return
	}

	r := image.Rect(
		int(math.Floor(math.Max(min.X, float64(b.Min.X)))),
		int(math.Floor(math.Max(min.Y, float64(b.Min.Y)))),
		int(math.Ceil(math.Min(max.X, float64(b.Max.X)))),
		int(math.Ceil(math.Min(max.Y, float64(b.Max.Y)))),
	).Intersect(b)
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	if cap(c.mask) < w*h {
		c.mask = make([]uint8, w*h)
	}
	mask := &image.Alpha{Pix: c.mask[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}

	c.z.Reset(w, h)
	trace(c.z, physics.V(float64(r.Min.X), float64(r.Min.Y)))
	c.z.ClosePath()
	c.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	xdraw.DrawMask(c.img, r, image.NewUniform(col), image.Point{}, mask, image.Point{}, xdraw.Over)
}

// Disc fills a circle of radius r centred at p.
func (c *canvas) Disc(p physics.Vec2, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	ext := physics.V(r, r)
	c.fill(p.Sub(ext), p.Add(ext), col, func(z *vector.Rasterizer, o physics.Vec2) {
		cx, cy := float32(p.X-o.X), float32(p.Y-o.Y)
		rr := float32(r)
		k := float32(kappa) * rr
		z.MoveTo(cx+rr, cy)
		z.CubeTo(cx+rr, cy+k, cx+k, cy+rr, cx, cy+rr)
		z.CubeTo(cx-k, cy+rr, cx-rr, cy+k, cx-rr, cy)
		z.CubeTo(cx-rr, cy-k, cx-k, cy-rr, cx, cy-rr)
		z.CubeTo(cx+k, cy-rr, cx+rr, cy-k, cx+rr, cy)
	})
}

// Segment strokes the line from a to b with the given total width. Zero
// length segments draw nothing.
func (c *canvas) Segment(a, b physics.Vec2, width float64, col color.Color) {
	if width <= 0 {
		return
	}
	hw := width / 2
	b0 := c.img.Bounds()
	lo := physics.V(float64(b0.Min.X)-hw-1, float64(b0.Min.Y)-hw-1)
	hi := physics.V(float64(b0.Max.X)+hw+1, float64(b0.Max.Y)+hw+1)
	a, b, ok := clipSegment(a, b, lo, hi)
	if !ok {
		return
	}

	dir, err := b.Sub(a).Normalize()
	if err != nil {
		return
	}
	n := physics.V(-dir.Y, dir.X).Scale(hw)
	quad := [4]physics.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}

	min, max := quad[0], quad[0]
	for _, q := range quad[1:] {
		min = physics.V(math.Min(min.X, q.X), math.Min(min.Y, q.Y))
		max = physics.V(math.Max(max.X, q.X), math.Max(max.Y, q.Y))
	}

	c.fill(min, max, col, func(z *vector.Rasterizer, o physics.Vec2) {
		z.MoveTo(float32(quad[0].X-o.X), float32(quad[0].Y-o.Y))
		for _, q := range quad[1:] {
			z.LineTo(float32(q.X-o.X), float32(q.Y-o.Y))
		}
	})
}

// clipSegment clips a-b to the box [lo, hi] (Liang-Barsky).
func clipSegment(a, b, lo, hi physics.Vec2) (physics.Vec2, physics.Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, a.X - lo.X},
		{d.X, hi.X - a.X},
		{-d.Y, a.Y - lo.Y},
		{d.Y, hi.Y - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}
