// Package translit turns romanized text into candidate lists of
// alternate-script spellings.
//
// A Profile is a rule table loaded from TOML: each rule maps a romanized
// grapheme to its ordered alternatives, optionally with distinct
// alternatives at the start or end of a word. The RuleGenerator tokenizes
// each whitespace-separated chunk by greedy longest match and expands the
// alternatives into spellings ordered best-first. Expansion is bounded; a
// chunk whose expansion would exceed the profile's limit fails with
// ErrCombinatorialExplosion.
//
// Generation is CPU-bound and synchronous. Callers that serve requests run
// it on a worker pool.
package translit
