package translit

import "strings"

// Detector reports whether text is romanized target-script text worth
// generating candidates for.
type Detector interface {
	Detect(text string) bool
}

// ProfileDetector accepts text that contains at least one of the profile's
// marker characters and none of its foreign spellings.
type ProfileDetector struct {
	markers []string
	foreign []string
}

var _ Detector = (*ProfileDetector)(nil)

// NewDetector builds a detector from p's markers and foreign spellings.
func NewDetector(p *Profile) *ProfileDetector {
	return &ProfileDetector{markers: p.Markers, foreign: p.Foreign}
}

// Detect implements Detector.
func (d *ProfileDetector) Detect(text string) bool {
	t := strings.ToLower(debracket(text))
	if !containsAny(t, d.markers) {
		return false
	}
	return !containsAny(t, d.foreign)
}

// debracket removes cataloger's square brackets.
func debracket(s string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(s)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
