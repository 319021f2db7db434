package rank

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/arc-api/internal/domain"
)

// Ranker orders hits best first. Hits judged irrelevant are dropped, so the
// result may be shorter than hits, or empty.
type Ranker interface {
	Rank(creators, dates []string, repSets [][]string, hits []domain.Hit) []domain.Hit
}

// Weights applied to the per-hit signals.
const (
	titleWeight   = 10.0
	creatorWeight = 3.0
	dateWeight    = 2.0
)

// maxAttachedPrefix is the longest run of attached particles (e.g. the
// article or a conjunction) allowed in front of a matching title word.
const maxAttachedPrefix = 2

// ScoreRanker scores each hit on title coverage, creator overlap and year
// agreement.
type ScoreRanker struct {
	// MinTitleCoverage is the fraction of title chunks that must match a
	// hit's title words for the hit to be kept.
	MinTitleCoverage float64
}

var _ Ranker = (*ScoreRanker)(nil)

// NewScoreRanker returns a ranker that keeps any hit matching at least one
// title chunk.
func NewScoreRanker() *ScoreRanker {
	return &ScoreRanker{}
}

// Score describes how a hit was judged.
type Score struct {
	TitleCoverage float64
	CreatorMatch  bool
	DateMatch     bool
}

// Total combines the signals into one comparable value.
func (s Score) Total() float64 {
	total := s.TitleCoverage * titleWeight
	if s.CreatorMatch {
		total += creatorWeight
	}
	if s.DateMatch {
		total += dateWeight
	}
	return total
}

// Rank implements Ranker. Equal scores keep the index order.
func (r *ScoreRanker) Rank(creators, dates []string, repSets [][]string, hits []domain.Hit) []domain.Hit {
	type scored struct {
		hit   domain.Hit
		total float64
	}

	kept := make([]scored, 0, len(hits))
	for _, h := range hits {
		s := r.Score(creators, dates, repSets, h)
		if s.TitleCoverage == 0 || s.TitleCoverage < r.MinTitleCoverage {
			continue
		}
		kept = append(kept, scored{hit: h, total: s.Total()})
	}

	slices.SortStableFunc(kept, func(a, b scored) int {
		return cmp.Compare(b.total, a.total)
	})

	out := make([]domain.Hit, len(kept))
	for i, k := range kept {
		out[i] = k.hit
	}
	return out
}

// Score evaluates one hit against the record's creators, dates and title
// candidate sets.
func (r *ScoreRanker) Score(creators, dates []string, repSets [][]string, h domain.Hit) Score {
	return Score{
		TitleCoverage: titleCoverage(repSets, words(h.Title())),
		CreatorMatch:  creatorMatch(creators, h.Creators()),
		DateMatch:     dateMatch(dates, h.Year()),
	}
}

func titleCoverage(repSets [][]string, titleWords []string) float64 {
	if len(repSets) == 0 || len(titleWords) == 0 {
		return 0
	}
	matched := 0
	for _, reps := range repSets {
		if slices.ContainsFunc(reps, func(rep string) bool {
			return slices.ContainsFunc(titleWords, func(w string) bool { return wordMatches(w, rep) })
		}) {
			matched++
		}
	}
	return float64(matched) / float64(len(repSets))
}

// wordMatches reports whether w is rep, possibly with a short attached prefix.
func wordMatches(w, rep string) bool {
	if rep == "" {
		return false
	}
	if w == rep {
		return true
	}
	prefix, found := strings.CutSuffix(w, rep)
	return found && utf8.RuneCountInString(prefix) <= maxAttachedPrefix
}

func creatorMatch(creators, hitCreators []string) bool {
	if len(creators) == 0 || len(hitCreators) == 0 {
		return false
	}
	have := make(map[string]struct{})
	for _, c := range hitCreators {
		for _, w := range words(c) {
			have[w] = struct{}{}
		}
	}
	for _, c := range creators {
		for _, w := range words(c) {
			if utf8.RuneCountInString(w) < 2 {
				continue
			}
			if _, ok := have[w]; ok {
				return true
			}
		}
	}
	return false
}

func dateMatch(dates []string, year string) bool {
	if year == "" {
		return false
	}
	for _, d := range dates {
		if strings.Contains(d, year) {
			return true
		}
	}
	return false
}

// words lowercases s and splits it on anything that is not a letter, digit
// or combining mark.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
	})
}
