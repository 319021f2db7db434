package search

import "errors"

var (
	// ErrEmptyQuery is returned by BuildQuery when no searchable word remains.
	ErrEmptyQuery = errors.New("empty query")

	// ErrIndexUnavailable is returned when the index answers with a non-2xx status.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrMalformedResponse is returned when the index response cannot be decoded.
	ErrMalformedResponse = errors.New("malformed search response")
)
