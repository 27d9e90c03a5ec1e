// Package encode provides frame sinks that assemble rendered frames into
// output artifacts.
package encode

import (
	"errors"
	"image"
)

var (
	ErrNoFrames  = errors.New("encode: no frames to write")
	ErrFrameSize = errors.New("encode: frame size differs from first frame")
	ErrClosed    = errors.New("encode: sink already closed")
)

// Sink receives frames in order and finalizes the output on Close.
type Sink interface {
	Append(img image.Image) error
	Close() error
}

// Discarder is implemented by sinks that can remove the output they have
// written so far instead of finalizing it.
type Discarder interface {
	Discard() error
}

func checkBounds(first *image.Rectangle, img image.Image) error {
	b := img.Bounds()
	if first.Empty() {
		*first = b
		return nil
	}
	if b.Size() != first.Size() {
		return ErrFrameSize
	}
	return nil
}
