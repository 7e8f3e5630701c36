package lime

import "errors"

var (
	// ErrInvalidInput is returned for malformed images: zero dimensions, a
	// channel count other than 3, or a buffer of the wrong length.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidParameter is returned when Parameters fail validation.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNumericDivergence is returned when refinement produces a
	// non-finite illumination value.
	ErrNumericDivergence = errors.New("numeric divergence")
	// ErrNoDiagnostics is returned by the diagnostics accessors of a
	// Pipeline that has not completed an enhancement yet.
	ErrNoDiagnostics = errors.New("no diagnostics recorded")
)
