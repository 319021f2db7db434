// Package domain contains the bibliographic entities of the service:
// records as decoded from clients and the record store, candidate lists
// (replists) produced by transliteration, catalog hits returned by the
// search index, and the error entries emitted in place of records that
// could not be enriched.
//
// Records are normalized once, at decode time: every field is an ordered
// sequence of NFC-normalized strings. Enrichment never mutates a record in
// place; it derives a new record from a clone.
package domain
