package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroVector indicates normalization of a vector with zero magnitude.
	ErrZeroVector = errors.New("physics: cannot normalize zero vector")

	// ErrSingular indicates two bodies occupying the same position.
	ErrSingular = errors.New("physics: zero separation between bodies")

	// ErrInvalidState indicates a body set containing NaN or Inf.
	ErrInvalidState = errors.New("physics: invalid state (NaN or Inf detected)")
)

// SingularityError reports which pair of bodies coincided.
type SingularityError struct {
	I, J int
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("%v: bodies %d and %d", ErrSingular, e.I, e.J)
}

func (e *SingularityError) Unwrap() error {
	return ErrSingular
}
