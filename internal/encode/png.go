package encode

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGDir writes every frame as frame_NNNNN.png into a directory, for
// assembly by external tools.
type PNGDir struct {
	dir     string
	created bool
	n       int
	bounds  image.Rectangle
	enc     png.Encoder
	closed  bool
}

func NewPNGDir(dir string) (*PNGDir, error) {
	_, err := os.Stat(dir)
	created := errors.Is(err, os.ErrNotExist)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGDir{dir: dir, created: created, enc: png.Encoder{CompressionLevel: png.BestSpeed}}, nil
}

func (p *PNGDir) Path(i int) string {
	return filepath.Join(p.dir, fmt.Sprintf("frame_%05d.png", i))
}

func (p *PNGDir) Append(img image.Image) error {
	if p.closed {
		return ErrClosed
	}
	if err := checkBounds(&p.bounds, img); err != nil {
		return fmt.Errorf("frame %d: %w", p.n, err)
	}

	f, err := os.Create(p.Path(p.n))
	if err != nil {
		return err
	}
	if err := p.enc.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	p.n++
	return nil
}

func (p *PNGDir) Len() int { return p.n }

func (p *PNGDir) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	if p.n == 0 {
		return ErrNoFrames
	}
	return nil
}

// Discard removes every frame written so far, and the directory itself if
// NewPNGDir created it.
func (p *PNGDir) Discard() error {
	p.closed = true
	var errs []error
	for i := 0; i < p.n; i++ {
		if err := os.Remove(p.Path(i)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	p.n = 0
	if p.created && len(errs) == 0 {
		if err := os.Remove(p.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Multi fans frames out to several sinks.
type Multi []Sink

func (m Multi) Append(img image.Image) error {
	for _, s := range m {
		if err := s.Append(img); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	for _, s := range m {
		if err := s.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Discard discards every sink that supports it.
func (m Multi) Discard() error {
	var errs []error
	for _, s := range m {
		if d, ok := s.(Discarder); ok {
			if err := d.Discard(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
