package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrNoTitleGiven is returned when a record has no usable title or
	// isPartOf value.
	ErrNoTitleGiven = errors.New("no title given")

	// ErrMalformedRecord is returned when a record field is neither a string
	// nor an array of strings.
	ErrMalformedRecord = errors.New("malformed record")
)
