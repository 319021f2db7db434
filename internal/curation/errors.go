package curation

import "errors"

var (
	// ErrQueueExhausted is returned by Next when every identifier is accepted.
	ErrQueueExhausted = errors.New("curation queue exhausted")

	// ErrUnknownIdentifier is returned for identifiers that were never enqueued.
	ErrUnknownIdentifier = errors.New("identifier not in curation queue")

	// ErrInvalidIdentifier is returned for empty identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
