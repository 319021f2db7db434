package domain

import (
	"fmt"
	"strings"
)

// Title segment separators, as used in catalog title statements.
const (
	ResponsibilitySeparator = " / "
	SubtitleSeparator       = " : "
)

// TitleSegments is a title statement split into its parts. Any part may be empty.
type TitleSegments struct {
	Main           string
	Subtitle       string
	Responsibility string
}

// SplitTitle splits text on the first " / " and then splits the part before
// it on the first " : ".
func SplitTitle(text string) TitleSegments {
	remainder, resp, _ := strings.Cut(text, ResponsibilitySeparator)
	main, sub, _ := strings.Cut(remainder, SubtitleSeparator)
	return TitleSegments{Main: main, Subtitle: sub, Responsibility: resp}
}

// Parts returns the segments in main, subtitle, responsibility order.
func (t TitleSegments) Parts() []string {
	return []string{t.Main, t.Subtitle, t.Responsibility}
}

// Joined reassembles the segments into a title statement, omitting empty parts.
func (t TitleSegments) Joined() string {
	var b strings.Builder
	b.WriteString(t.Main)
	if t.Subtitle != "" {
		b.WriteString(SubtitleSeparator)
		b.WriteString(t.Subtitle)
	}
	if t.Responsibility != "" {
		b.WriteString(ResponsibilitySeparator)
		b.WriteString(t.Responsibility)
	}
	return b.String()
}

// ExtractTitle selects the title source of rec: title[0] when the record has
// a title value, otherwise isPartOf[0]. It returns the chosen field name and
// its value. A chosen value that is empty, or a record with neither field,
// yields ErrNoTitleGiven.
func ExtractTitle(rec Record) (field, title string, err error) {
	for _, f := range []string{FieldTitle, FieldIsPartOf} {
		value, ok := rec.First(f)
		if !ok {
			continue
		}
		if value == "" {
			return "", "", fmt.Errorf("%w: empty %s", ErrNoTitleGiven, f)
		}
		return f, value, nil
	}
	return "", "", ErrNoTitleGiven
}
