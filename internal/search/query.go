package search

import (
	"strings"
	"unicode"
)

// TitleField is the index field searched for title matches.
const TitleField = "alltitles"

// StoredRecordField holds the catalog record of each indexed document.
const StoredRecordField = "originalData"

// asciiPunctuation is the punctuation trimmed from the ends of words.
// Other scripts' marks, such as the Hebrew geresh and gershayim, are part
// of the word.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// specialChars are the query-syntax characters escaped inside terms.
const specialChars = `+-&|!(){}[]^"~*?:\/`

// BuildQuery turns words into a fuzzy disjunction: ASCII punctuation is
// trimmed from both ends of each word, empty words are dropped, and the rest are
// joined as "w1~ OR w2~". It returns ErrEmptyQuery when nothing remains.
func BuildQuery(words []string) (string, error) {
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimFunc(w, isTrimmable)
		if w == "" {
			continue
		}
		terms = append(terms, escape(w)+"~")
	}
	if len(terms) == 0 {
		return "", ErrEmptyQuery
	}
	return strings.Join(terms, " OR "), nil
}

// FieldQuery restricts q to field.
func FieldQuery(field, q string) string {
	return field + ":(" + q + ")"
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(asciiPunctuation, r)
}

func escape(term string) string {
	if !strings.ContainsAny(term, specialChars+" ") {
		return term
	}
	var b strings.Builder
	for _, r := range term {
		if strings.ContainsRune(specialChars, r) || r == ' ' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
