package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Script delimiters used by the catalog to mark non-filing characters, and
// the replacements written into enriched records.
const (
	catalogOpen  = "<<"
	catalogClose = ">>"
	recordOpen   = "{"
	recordClose  = "}"
)

// DataField is one occurrence of a MARC data field: subfield code to values.
type DataField map[string][]string

// Hit is a catalog record returned by the search index, decoded from the
// document's stored MARC-in-JSON payload.
type Hit struct {
	ControlFields map[string]string      `json:"controlfields"`
	DataFields    map[string][]DataField `json:"datafields"`

	raw json.RawMessage
}

// ParseHit decodes a stored MARC-in-JSON document, keeping the raw bytes.
func ParseHit(data []byte) (Hit, error) {
	var h Hit
	if err := json.Unmarshal(data, &h); err != nil {
		return Hit{}, fmt.Errorf("decode catalog document: %w", err)
	}
	h.raw = append(json.RawMessage(nil), data...)
	return h, nil
}

// MarshalJSON emits the original document when the hit was parsed from one.
func (h Hit) MarshalJSON() ([]byte, error) {
	if h.raw != nil {
		return h.raw, nil
	}
	type plain Hit
	return json.Marshal(plain(h))
}

// ControlNumber returns the catalog identifier (control field 001).
func (h Hit) ControlNumber() string {
	return h.ControlFields["001"]
}

// subfield returns the first value of code in the first occurrence of tag.
func (h Hit) subfield(tag, code string) string {
	fields := h.DataFields[tag]
	if len(fields) == 0 {
		return ""
	}
	values := fields[0][code]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// TitleSegments returns the title statement (field 245 $a $b $c) with
// trailing ISBD punctuation removed from each part.
func (h Hit) TitleSegments() TitleSegments {
	return TitleSegments{
		Main:           trimISBD(h.subfield("245", "a")),
		Subtitle:       trimISBD(h.subfield("245", "b")),
		Responsibility: trimISBD(h.subfield("245", "c")),
	}
}

// Title returns the joined title statement.
func (h Hit) Title() string {
	return h.TitleSegments().Joined()
}

// RecordTitle returns the title with catalog delimiters rewritten for records.
func (h Hit) RecordTitle() string {
	t := strings.ReplaceAll(h.Title(), catalogOpen, recordOpen)
	return strings.ReplaceAll(t, catalogClose, recordClose)
}

// Creators returns the main and added entry personal names (100 $a, 700 $a).
func (h Hit) Creators() []string {
	var names []string
	for _, tag := range []string{"100", "700"} {
		for _, field := range h.DataFields[tag] {
			for _, name := range field["a"] {
				if name = trimISBD(name); name != "" {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

// Year returns the publication year from control field 008, falling back to
// the first four-digit run in 260 $c or 264 $c.
func (h Hit) Year() string {
	if f008 := h.ControlFields["008"]; len(f008) >= 11 && isDigits(f008[7:11]) {
		return f008[7:11]
	}
	for _, tag := range []string{"260", "264"} {
		if y := firstYear(h.subfield(tag, "c")); y != "" {
			return y
		}
	}
	return ""
}

func trimISBD(s string) string {
	return strings.TrimRightFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '/' || r == ':' || r == ';' || r == ',' || r == '.' || unicode.IsSpace(r)
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// firstYear returns the first run of exactly four ASCII digits in s.
func firstYear(s string) string {
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			run++
			continue
		}
		if run == 4 {
			return s[i-4 : i]
		}
		run = 0
	}
	if run == 4 {
		return s[len(s)-4:]
	}
	return ""
}
