package task

import "errors"

var (
	// ErrPoolClosed is returned when work is submitted after Release.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrTaskPanicked is returned when submitted work panics.
	ErrTaskPanicked = errors.New("task panicked")
)
