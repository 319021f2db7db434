// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP concerns to the enrichment pipeline,
// the record store and the curation queue.
//
// Inputs travel in the URL: JSON documents and free text are taken from the
// trailing path segment of a route, or from a query parameter when the path
// segment is empty. Batch enrichment results are streamed as a JSON array.
package api
