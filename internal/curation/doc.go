// Package curation sequences record identifiers for manual review.
//
// A Queue hands out identifiers one at a time in a fixed order, cycling
// back to the start when it reaches the end. A curator either skips an
// identifier, which records the rejection marker "null" and leaves the
// identifier in rotation, or submits a replacement payload, which accepts
// the identifier and removes it from rotation until it is enqueued again.
// Payloads are kept in a Store; MemoryStore and BadgerStore are provided.
package curation
