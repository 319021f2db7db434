// Package enrich adds verified alternate-script titles and catalog links to
// bibliographic records.
//
// A Pipeline takes one record through extraction, candidate generation,
// index query, ranking and merge. A Coordinator runs the pipeline for every
// record of a batch concurrently and hands each result to the caller as
// soon as it is ready. Records that fail in an expected way (no usable
// title, or a title too ambiguous to expand) become error entries; any other
// failure aborts the batch.
package enrich
