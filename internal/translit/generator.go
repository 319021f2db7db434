package translit

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Candidates is the full, untruncated expansion of one chunk of text.
type Candidates struct {
	Key  string
	Reps []string
}

// Generator turns text into candidate spellings, one Candidates per chunk.
type Generator interface {
	Generate(text string) ([]Candidates, error)
}

// RuleGenerator expands text using a Profile's rule table.
type RuleGenerator struct {
	rules           map[string]Rule
	maxKeyLen       int
	maxCombinations int
}

var _ Generator = (*RuleGenerator)(nil)

// NewRuleGenerator compiles p into a generator.
func NewRuleGenerator(p *Profile) *RuleGenerator {
	g := &RuleGenerator{
		rules:           make(map[string]Rule, len(p.Rules)),
		maxCombinations: p.MaxCombinations,
	}
	for _, r := range p.Rules {
		key := strings.ToLower(r.From)
		g.rules[key] = r
		if n := utf8.RuneCountInString(key); n > g.maxKeyLen {
			g.maxKeyLen = n
		}
	}
	return g
}

// Generate expands each whitespace-separated chunk of text.
func (g *RuleGenerator) Generate(text string) ([]Candidates, error) {
	chunks := strings.Fields(text)
	out := make([]Candidates, 0, len(chunks))
	for _, chunk := range chunks {
		reps, err := g.expand(chunk)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", chunk, err)
		}
		out = append(out, Candidates{Key: chunk, Reps: reps})
	}
	return out, nil
}

type token struct {
	rule    *Rule
	literal string
}

// tokenize splits a lowercased chunk by greedy longest match against the
// rule keys. Characters without a rule pass through as literals.
func (g *RuleGenerator) tokenize(chunk string) []token {
	runes := []rune(strings.ToLower(chunk))
	var tokens []token
	for i := 0; i < len(runes); {
		matched := false
		for n := min(g.maxKeyLen, len(runes)-i); n > 0; n-- {
			if r, ok := g.rules[string(runes[i:i+n])]; ok {
				tokens = append(tokens, token{rule: &r})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			tokens = append(tokens, token{literal: string(runes[i])})
			i++
		}
	}
	return tokens
}

// alternatives resolves each token to its positional alternatives.
func alternatives(tokens []token) [][]string {
	first, last := -1, -1
	for i, t := range tokens {
		if t.rule != nil {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	alts := make([][]string, len(tokens))
	for i, t := range tokens {
		switch {
		case t.rule == nil:
			alts[i] = []string{t.literal}
		case i == first && len(t.rule.Initial) > 0:
			alts[i] = t.rule.Initial
		case i == last && len(t.rule.Final) > 0:
			alts[i] = t.rule.Final
		default:
			alts[i] = t.rule.To
		}
	}
	return alts
}

type spelling struct {
	text string
	rank int
}

func (g *RuleGenerator) expand(chunk string) ([]string, error) {
	alts := alternatives(g.tokenize(chunk))

	total := 1
	for _, a := range alts {
		total *= len(a)
		if total > g.maxCombinations {
			return nil, fmt.Errorf("%w: more than %d spellings", ErrCombinatorialExplosion, g.maxCombinations)
		}
	}

	spellings := make([]spelling, 0, total)
	idx := make([]int, len(alts))
	for {
		var b strings.Builder
		rank := 0
		for i, a := range alts {
			b.WriteString(a[idx[i]])
			rank += idx[i]
		}
		spellings = append(spellings, spelling{text: b.String(), rank: rank})

		// odometer increment, rightmost position fastest
		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(alts[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	slices.SortStableFunc(spellings, func(a, b spelling) int {
		return a.rank - b.rank
	})

	seen := make(map[string]struct{}, len(spellings))
	reps := make([]string, 0, len(spellings))
	for _, s := range spellings {
		if _, dup := seen[s.text]; dup || s.text == "" {
			continue
		}
		seen[s.text] = struct{}{}
		reps = append(reps, s.text)
	}
	return reps, nil
}
