package raptor

import "github.com/pkg/errors"

// Fatal assembly errors, per spec.md §7.
var (
	// ErrUnknownStopID is returned when a transfer or a stop_times row
	// references a stop id absent from the stop table.
	ErrUnknownStopID = errors.New("unknown stop id")

	// ErrMissingOrdering is returned when a trip's stop_times rows are not
	// contiguous, or a trip's departures decrease from one row to the
	// next. The order of trip ids relative to each other is not checked.
	ErrMissingOrdering = errors.New("stop_times rows out of order")
)
