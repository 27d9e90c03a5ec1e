package encode

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"
)

// GIF collects frames and writes a looping animation on Close.
type GIF struct {
	w       io.Writer
	palette color.Palette
	delay   int
	bounds  image.Rectangle
	anim    gif.GIF
	closed  bool
}

// NewGIF writes to w. delay is rounded to the 10ms resolution of the format.
func NewGIF(w io.Writer, pal color.Palette, delay time.Duration) *GIF {
	if len(pal) == 0 {
		pal = color.Palette{color.White, color.Black}
	}
	return &GIF{
		w:       w,
		palette: pal,
		delay:   int((delay + 5*time.Millisecond) / (10 * time.Millisecond)),
		anim:    gif.GIF{LoopCount: 0},
	}
}

func (g *GIF) Append(img image.Image) error {
	if g.closed {
		return ErrClosed
	}
	if err := checkBounds(&g.bounds, img); err != nil {
		return fmt.Errorf("frame %d: %w", len(g.anim.Image), err)
	}

	b := img.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), g.palette)
	xdraw.Draw(frame, frame.Bounds(), img, b.Min, xdraw.Src)

	g.anim.Image = append(g.anim.Image, frame)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	return nil
}

func (g *GIF) Len() int { return len(g.anim.Image) }

func (g *GIF) Close() error {
	if g.closed {
		return ErrClosed
	}
	g.closed = true
	if len(g.anim.Image) == 0 {
		return ErrNoFrames
	}
	return gif.EncodeAll(g.w, &g.anim)
}

// GIFFile writes the animation to path only once it is complete: frames
// are encoded to a temporary file in the same directory which is renamed
// into place by Close.
type GIFFile struct {
	*GIF
	path string
	tmp  *os.File
}

func NewGIFFile(path string, pal color.Palette, delay time.Duration) (*GIFFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".orbitgif-*.gif")
	if err != nil {
		return nil, err
	}
	return &GIFFile{GIF: NewGIF(tmp, pal, delay), path: path, tmp: tmp}, nil
}

func (f *GIFFile) Close() error {
	err := f.GIF.Close()
	if cerr := f.tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	return os.Rename(f.tmp.Name(), f.path)
}

// Discard removes the temporary file without writing the animation. It is
// a no-op once the file has been removed or renamed by Close.
func (f *GIFFile) Discard() error {
	f.closed = true
	f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
