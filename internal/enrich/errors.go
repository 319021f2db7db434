package enrich

import (
	"errors"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/translit"
)

// FailureKind names an expected per-record failure.
type FailureKind string

const (
	NoTitleGiven           FailureKind = domain.ReasonNoTitleGiven
	CombinatorialExplosion FailureKind = domain.ReasonCombinatorialExplosion
)

// Classify reports whether err is an expected per-record failure, and which.
// Errors it does not recognize are fatal to the batch.
func Classify(err error) (FailureKind, bool) {
	switch {
	case errors.Is(err, domain.ErrNoTitleGiven):
		return NoTitleGiven, true
	case errors.Is(err, translit.ErrCombinatorialExplosion):
		return CombinatorialExplosion, true
	default:
		return "", false
	}
}
