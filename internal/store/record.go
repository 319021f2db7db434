package store

import (
	"context"

	"github.com/phrazzld/arc-api/internal/domain"
)

// RecordStore looks up bibliographic records by identifier (PPN).
type RecordStore interface {
	// Get returns the record with the given identifier. It returns an error
	// wrapping ErrRecordNotFound when there is none.
	Get(ctx context.Context, ppn string) (domain.Record, error)

	// Identifiers returns every stored identifier in ascending order.
	Identifiers(ctx context.Context) ([]string, error)

	// Put inserts rec under ppn, replacing any existing record.
	Put(ctx context.Context, ppn string, rec domain.Record) error

	// WithTx returns a store that runs its operations in tx.
	WithTx(tx DBTX) RecordStore
}
