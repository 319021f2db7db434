// Package task runs CPU-bound work on a bounded, process-wide worker pool so
// that request goroutines waiting on I/O are never starved by candidate
// generation or ranking. The pool is created once at startup and released
// on shutdown; each submitted unit of work is stateless and returns its
// result to the caller that submitted it.
package task
