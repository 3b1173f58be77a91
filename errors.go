package cbmark

import "errors"

// Errors that can be returned by cbmark.
var (
	// ErrInvalidArgument is returned when a resolution estimate is requested
	// with fewer than one iteration.
	ErrInvalidArgument = errors.New("cbmark: invalid argument")

	// ErrClockUnavailable is returned when the host's monotonic clock or
	// process CPU accounting cannot be read.
	ErrClockUnavailable = errors.New("cbmark: clock unavailable")

	// ErrMeasurementAnomaly is returned by End when an elapsed field is
	// negative. The Trial still holds the computed deltas.
	ErrMeasurementAnomaly = errors.New("cbmark: negative elapsed time")
)
