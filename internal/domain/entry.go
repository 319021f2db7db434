package domain

// Error reasons reported in ErrorEntry.Error.
const (
	ReasonNoTitleGiven           = "NoTitleGiven"
	ReasonCombinatorialExplosion = "CombinatorialExplosion"
	ReasonNoMatches              = "no matches found"
)

// ErrorEntry replaces a record in batch output when it could not be enriched.
type ErrorEntry struct {
	Error     string  `json:"error"`
	Record    Record  `json:"record"`
	BestGuess *string `json:"best_guess,omitempty"`
}

// NewErrorEntry builds an ErrorEntry without a best guess.
func NewErrorEntry(reason string, rec Record) ErrorEntry {
	return ErrorEntry{Error: reason, Record: rec}
}

// NoMatches builds the soft failure entry carrying the best-guess words.
func NoMatches(rec Record, bestGuess string) ErrorEntry {
	return ErrorEntry{Error: ReasonNoMatches, Record: rec, BestGuess: &bestGuess}
}
