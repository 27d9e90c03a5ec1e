package viz

import (
	"math"
	"strings"

	"github.com/san-kum/orbitgif/internal/physics"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width x Height grid of Braille cells, addressed in dots:
// 2*Width x 4*Height.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPath connects consecutive world points mapped through vp.
func (c *Canvas) DrawPath(vp Viewport, pts []physics.Vec2) {
	for i, p := range pts {
		x, y := vp.Map(p)
		if i == 0 {
			c.Set(x, y)
			continue
		}
		px, py := vp.Map(pts[i-1])
		c.DrawLine(px, py, x, y)
	}
}

// DrawDot marks a 2x2 dot block so bodies stand out from trails.
func (c *Canvas) DrawDot(vp Viewport, p physics.Vec2) {
	x, y := vp.Map(p)
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas dots with a uniform scale,
// y pointing down as in the rendered frames.
type Viewport struct {
	Min   physics.Vec2
	Scale float64
	OffX  float64
	OffY  float64
}

// Fit returns a viewport showing every point on a canvas of w x h dots,
// keeping the aspect ratio and leaving a one-dot margin.
func Fit(pts []physics.Vec2, w, h int) Viewport {
	if len(pts) == 0 {
		return Viewport{Scale: 1}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = physics.V(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = physics.V(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}

	span := hi.Sub(lo)
	usableW, usableH := float64(max(w-3, 1)), float64(max(h-3, 1))
	scale := math.Inf(1)
	if span.X > 0 {
		scale = usableW / span.X
	}
	if span.Y > 0 {
		scale = math.Min(scale, usableH/span.Y)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	return Viewport{
		Min:   lo,
		Scale: scale,
		OffX:  1 + (usableW-span.X*scale)/2,
		OffY:  1 + (usableH-span.Y*scale)/2,
	}
}

func (v Viewport) Map(p physics.Vec2) (int, int) {
	d := p.Sub(v.Min)
	return int(math.Round(v.OffX + d.X*v.Scale)), int(math.Round(v.OffY + d.Y*v.Scale))
}

// OrbitPlot draws one path per body on a w x h cell canvas.
func OrbitPlot(paths [][]physics.Vec2, w, h int) string {
	c := NewCanvas(w, h)
	var all []physics.Vec2
	for _, p := range paths {
		all = append(all, p...)
	}
	dw, dh := c.Dots()
	vp := Fit(all, dw, dh)
	for _, p := range paths {
		c.DrawPath(vp, p)
	}
	return c.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
