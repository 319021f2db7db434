package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/platform/logger"
	"github.com/phrazzld/arc-api/internal/store"
)

// RecordStore implements store.RecordStore on a records table holding
// each record as JSON.
type RecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates a RecordStore on db, which may be a *sql.DB or a *sql.Tx.
func NewRecordStore(db store.DBTX, log *slog.Logger) *RecordStore {
	if db == nil {
		// ALLOW-PANIC: programming error, never a runtime condition
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecordStore{
		db:     db,
		logger: log.With(slog.String("component", "record_store")),
	}
}

// WithTx implements store.RecordStore.
func (s *RecordStore) WithTx(tx store.DBTX) store.RecordStore {
	return &RecordStore{db: tx, logger: s.logger}
}

// Get implements store.RecordStore.
func (s *RecordStore) Get(ctx context.Context, ppn string) (domain.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM records WHERE ppn = $1`, ppn).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("record not found", "ppn", ppn)
		return nil, fmt.Errorf("%w: %s", store.ErrRecordNotFound, ppn)
	}
	if err != nil {
		log.Error("failed to get record", "ppn", ppn, "error", err)
		return nil, store.NewStoreError("record", "get", MapError(err))
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, store.NewStoreError("record", "decode", err)
	}
	return rec, nil
}

// Identifiers implements store.RecordStore.
func (s *RecordStore) Identifiers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ppn FROM records ORDER BY ppn`)
	if err != nil {
		return nil, store.NewStoreError("record", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("record", "list", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("record", "list", MapError(err))
	}
	return ids, nil
}

// Put implements store.RecordStore.
func (s *RecordStore) Put(ctx context.Context, ppn string, rec domain.Record) error {
	if ppn == "" {
		return fmt.Errorf("%w: empty identifier", store.ErrInvalidEntity)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return store.NewStoreError("record", "encode", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (ppn, record) VALUES ($1, $2)
		ON CONFLICT (ppn) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP
	`, ppn, string(data))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to put record", "ppn", ppn, "error", err)
		return store.NewStoreError("record", "put", MapError(err))
	}
	return nil
}
