package domain

// MaxReps is the most representations a Replist surfaces to callers.
const MaxReps = 30

// Replist is the ordered, best-first list of candidate transliterations of
// one chunk of source text.
type Replist struct {
	Key  string   `json:"key"`
	Reps []string `json:"reps"`
}

// NewReplist copies at most MaxReps entries of reps into a new Replist.
func NewReplist(key string, reps []string) Replist {
	if len(reps) > MaxReps {
		reps = reps[:MaxReps]
	}
	out := make([]string, len(reps))
	copy(out, reps)
	return Replist{Key: key, Reps: out}
}

// Best returns the preferred representation, falling back to the key when
// the generator produced none.
func (r Replist) Best() string {
	if len(r.Reps) == 0 {
		return r.Key
	}
	return r.Reps[0]
}

// BestWords returns the preferred representation of each replist.
func BestWords(replists []Replist) []string {
	words := make([]string, len(replists))
	for i, rl := range replists {
		words[i] = rl.Best()
	}
	return words
}

// RepSets returns the reps of each replist, in order.
func RepSets(replists []Replist) [][]string {
	sets := make([][]string, len(replists))
	for i, rl := range replists {
		sets[i] = rl.Reps
	}
	return sets
}
