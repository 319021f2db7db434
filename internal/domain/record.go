package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Field names with meaning to the enrichment pipeline.
const (
	FieldTitle    = "title"
	FieldIsPartOf = "isPartOf"
	FieldCreator  = "creator"
	FieldDate     = "date"
	FieldRelation = "relation"
)

var errNullValue = errors.New("null value")

// Record is a bibliographic record: field name to ordered values.
type Record map[string][]string

// UnmarshalJSON decodes a JSON object whose values are strings or arrays of
// strings. Scalar strings become one-element slices and every value is NFC
// normalized.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: record is null", ErrMalformedRecord)
	}

	out := make(Record, len(raw))
	for field, value := range raw {
		values, err := decodeFieldValue(value)
		if err != nil {
			return fmt.Errorf("%w: field %q must be a string or an array of strings",
				ErrMalformedRecord, field)
		}
		out[field] = values
	}
	*r = out.Normalize()
	return nil
}

// decodeFieldValue accepts a string or an array of strings. null is
// rejected, as a value and as an array element.
func decodeFieldValue(value json.RawMessage) ([]string, error) {
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil, errNullValue
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return []string{s}, nil
	}
	var list []*string
	if err := json.Unmarshal(value, &list); err != nil {
		return nil, err
	}
	values := make([]string, len(list))
	for i, v := range list {
		if v == nil {
			return nil, errNullValue
		}
		values[i] = *v
	}
	return values, nil
}

// Normalize returns a copy of r with every value NFC normalized.
// Normalizing an already normalized record yields an equal record.
func (r Record) Normalize() Record {
	out := make(Record, len(r))
	for field, values := range r {
		normalized := make([]string, len(values))
		for i, v := range values {
			normalized[i] = norm.NFC.String(v)
		}
		out[field] = normalized
	}
	return out
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for field, values := range r {
		out[field] = slices.Clone(values)
	}
	return out
}

// Get returns the values of field; nil if absent.
func (r Record) Get(field string) []string {
	return r[field]
}

// First returns the first value of field and whether it exists.
func (r Record) First(field string) (string, bool) {
	values := r[field]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// With returns a clone of r with values appended to field.
func (r Record) With(field string, values ...string) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	out[field] = append(out[field], values...)
	return out
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}

// DecodeRecords decodes a JSON array of records.
func DecodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, fmt.Errorf("%w: expected an array of records", ErrMalformedRecord)
	}
	return records, nil
}
