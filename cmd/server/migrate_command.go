package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/arc-api/internal/platform/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status>",
		Short:     "Manage the record store schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			statuses, err := database.Migrate(cmd.Context(), db, cfg.Database.Driver, args[0], log)
			if err != nil {
				return err
			}

			rows := make([][]string, len(statuses))
			for i, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				rows[i] = []string{strconv.FormatInt(s.Version, 10), s.Name, state}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Version", "Migration", "State"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
