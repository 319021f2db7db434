package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/platform/database"
	"github.com/phrazzld/arc-api/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <records.json>",
		Short: "Load records, keyed by PPN, into the record store",
		Long: `Load a JSON object mapping PPNs to records into the record store.
Existing records with the same PPN are replaced. The import is atomic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			records, err := readRecordFile(args[0])
			if err != nil {
				return err
			}

			db, err := database.Open(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			recordStore := database.NewRecordStore(db, log)
			if err := importRecords(cmd.Context(), db, recordStore, records); err != nil {
				return err
			}

			log.Info("records imported", "count", len(records), "file", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", len(records))
			return nil
		},
	}
}

func readRecordFile(path string) (map[string]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	var records map[string]domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: %s must hold an object of records keyed by PPN", domain.ErrMalformedRecord, path)
	}
	return records, nil
}

func importRecords(ctx context.Context, db *sql.DB, recordStore store.RecordStore, records map[string]domain.Record) error {
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := recordStore.WithTx(tx)
		for _, ppn := range slices.Sorted(maps.Keys(records)) {
			if err := txStore.Put(ctx, ppn, records[ppn]); err != nil {
				return fmt.Errorf("import %s: %w", ppn, err)
			}
		}
		return nil
	})
}
