package render

import (
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// canvasPool recycles supersampled canvases between frames. Every canvas
// handed out is cleared to the background.
type canvasPool struct {
	pool sync.Pool
	w, h int
	bg   color.Color
}

func newCanvasPool(w, h int, bg color.Color) *canvasPool {
	p := &canvasPool{w: w, h: h, bg: bg}
	p.pool.New = func() any {
		return newCanvas(w, h, bg)
	}
	return p
}

func (p *canvasPool) get() *canvas {
	c := p.pool.Get().(*canvas)
	if c.dirty {
		c.clear(p.bg)
	}
	c.dirty = true
	return c
}

func (p *canvasPool) put(c *canvas) {
	if c.img.Bounds() != image.Rect(0, 0, p.w, p.h) {
		return
	}
	p.pool.Put(c)
}

func (c *canvas) clear(bg color.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
}
