package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/san-kum/orbitgif/internal/physics"
	xdraw "golang.org/x/image/draw"
)

// MaxCanvasPixels bounds the supersampled canvas (4 bytes per pixel).
const MaxCanvasPixels = 1 << 27

var (
	ErrCanvasTooLarge = errors.New("render: supersampled canvas too large")
	ErrBadOptions     = errors.New("render: invalid options")
)

// boxFilter averages every source pixel that falls inside the destination
// pixel's footprint.
var boxFilter = &xdraw.Kernel{
	Support: 0.5,
	At: func(t float64) float64 {
		if t > -0.5 && t <= 0.5 {
			return 1
		}
		return 0
	},
}

type Options struct {
	Width, Height int
	AliasScale    int
	// TailWidth is the trail stroke width in output pixels.
	TailWidth  float64
	Background color.Color
	Foreground color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     800,
		AliasScale: 2,
		TailWidth:  2,
		Background: color.White,
		Foreground: color.Black,
	}
}

// Renderer draws body sets. Supersampled canvases are pooled per renderer
// and Render is safe for concurrent use.
type Renderer struct {
	opts Options
	proj Projector
	pool *canvasPool
}

// NewRenderer validates opts and the canvas size before any frame is drawn.
func NewRenderer(opts Options, proj Projector) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadOptions, opts.Width, opts.Height)
	}
	if opts.AliasScale < 1 {
		return nil, fmt.Errorf("%w: alias scale %d", ErrBadOptions, opts.AliasScale)
	}
	w := int64(opts.Width) * int64(opts.AliasScale)
	h := int64(opts.Height) * int64(opts.AliasScale)
	if w*h > MaxCanvasPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, w, h, MaxCanvasPixels)
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	return &Renderer{
		opts: opts,
		proj: proj,
		pool: newCanvasPool(int(w), int(h), opts.Background),
	}, nil
}

func (r *Renderer) Options() Options     { return r.opts }
func (r *Renderer) Projector() Projector { return r.proj }

// Render draws one frame. The first body is the re-centring reference when
// the projector follows the centre.
func (r *Renderer) Render(bodies []physics.Body) (image.Image, error) {
	s := float64(r.opts.AliasScale)
	var c *canvas
	if r.opts.AliasScale == 1 {
		// the canvas is the frame itself and cannot be recycled
		c = newCanvas(r.opts.Width, r.opts.Height, r.opts.Background)
	} else {
		c = r.pool.get()
		defer r.pool.put(c)
	}

	var center physics.Vec2
	if len(bodies) > 0 {
		center = bodies[0].Position
	}

	for _, b := range bodies {
		col := r.opts.Foreground
		if b.Color != nil {
			col = b.Color
		}

		pos := r.proj.WorldToScreen(b.Position, center).Scale(s)
		c.Disc(pos, b.Radius*s, col)

		tr := b.Trail()
		if tr.Len() < 2 {
			continue
		}
		prev := r.proj.WorldToScreen(tr.At(0), center).Scale(s)
		for i := 1; i < tr.Len(); i++ {
			cur := r.proj.WorldToScreen(tr.At(i), center).Scale(s)
			c.Segment(prev, cur, r.opts.TailWidth*s, col)
			prev = cur
		}
	}

	if r.opts.AliasScale == 1 {
		return c.img, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	boxFilter.Scale(out, out.Bounds(), c.img, c.img.Bounds(), xdraw.Src, nil)
	return out, nil
}
