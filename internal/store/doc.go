// Package store defines the persistence interfaces for bibliographic
// records, independent of the database that backs them. Implementations
// live under internal/platform.
package store
