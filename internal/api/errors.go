package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/arc-api/internal/curation"
	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/search"
	"github.com/phrazzld/arc-api/internal/store"
	"github.com/phrazzld/arc-api/internal/translit"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, curation.ErrUnknownIdentifier):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrMalformedRecord),
		errors.Is(err, curation.ErrInvalidIdentifier),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Records that cannot be converted
	case errors.Is(err, domain.ErrNoTitleGiven),
		errors.Is(err, translit.ErrCombinatorialExplosion):
		return http.StatusUnprocessableEntity

	// Upstream index failures
	case errors.Is(err, search.ErrIndexUnavailable),
		errors.Is(err, search.ErrMalformedResponse):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Special cases
	case errors.Is(err, curation.ErrQueueExhausted):
		return http.StatusNoContent

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that carries
// no internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return "Record not found"

	case errors.Is(err, curation.ErrUnknownIdentifier):
		return "Identifier is not in the curation queue"

	case errors.Is(err, curation.ErrInvalidIdentifier):
		return "Invalid identifier"

	case errors.Is(err, domain.ErrMalformedRecord):
		return "Malformed record"

	case errors.Is(err, domain.ErrNoTitleGiven):
		return "Record has no title"

	case errors.Is(err, translit.ErrCombinatorialExplosion):
		return "Text has too many possible conversions"

	case errors.Is(err, search.ErrIndexUnavailable),
		errors.Is(err, search.ErrMalformedResponse):
		return "Search index unavailable"

	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "excludesall":
		return "contains invalid characters"
	default:
		return "validation failed"
	}
}
