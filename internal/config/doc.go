// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to the settings of the record store, the search index, the
// enrichment worker pool and the curation queue.
package config
