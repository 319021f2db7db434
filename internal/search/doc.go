// Package search is the client for the external catalog search index.
//
// The index speaks the Solr select API. Each matching document stores the
// full catalog record as MARC-in-JSON in its originalData field; Query
// decodes that payload into domain.Hit values for ranking and merging.
package search
