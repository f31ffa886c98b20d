package mosse

import "github.com/pkg/errors"

var (
	// ErrInvalidRegion is returned when a selection has zero or negative area
	// or the derived template does not fit inside the reference frame.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrInvalidFrame is returned for nil or empty frames.
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrDegenerateSpectrum is returned when filter recomputation would
	// produce non-finite values even after regularisation.
	ErrDegenerateSpectrum = errors.New("degenerate spectrum")
	// ErrTargetNotFound is returned by MultiTracker for unknown identifiers.
	ErrTargetNotFound = errors.New("target not found")
)
