package enrich

import (
	"encoding/json"

	"github.com/phrazzld/arc-api/internal/domain"
)

// Outcome is the result of preparing a record for matching: either the
// candidates derived from it, or the expected failure that stopped it.
type Outcome struct {
	// Failure is empty when preparation succeeded.
	Failure FailureKind

	// TitleField is the record field the title was taken from.
	TitleField string
	// TitleReplists covers main title, subtitle and responsibility in order.
	TitleReplists []domain.Replist
	// CreatorReplists has one entry per creator value. Entries for creators
	// not written in the target script are nil.
	CreatorReplists [][]domain.Replist
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Failure != ""
}

// Result is one element of batch output: an enriched record or an error entry.
type Result struct {
	Record domain.Record
	Error  *domain.ErrorEntry
}

// Enriched wraps a successfully enriched record.
func Enriched(rec domain.Record) Result {
	return Result{Record: rec}
}

// Failed wraps an error entry.
func Failed(entry domain.ErrorEntry) Result {
	return Result{Error: &entry}
}

// MarshalJSON encodes whichever side is set.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(r.Error)
	}
	return json.Marshal(r.Record)
}
