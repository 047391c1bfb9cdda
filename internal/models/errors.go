package models

import "errors"

// Error kinds raised at component boundaries. Components wrap them with
// detail; callers match with errors.Is.
var (
	// ErrInvalidConfiguration covers lane counts below 1 and unrecognized major axes.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedConfiguration means a lane pair or area type has no table entry.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	// ErrInvalidInput covers negative or non-finite volumes and empty interval sequences.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIncompleteAggregation means the interval count is not a multiple of the hourly window.
	ErrIncompleteAggregation = errors.New("incomplete aggregation")
)
