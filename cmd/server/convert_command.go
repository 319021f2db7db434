package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/enrich"
	"github.com/phrazzld/arc-api/internal/task"
	"github.com/phrazzld/arc-api/internal/translit"
)

// alternativesShown is how many candidates after the best one convert prints.
const alternativesShown = 4

// newConverter builds the candidate converter for a transliteration profile.
// The caller releases the returned pool.
func newConverter(profilePath string, workers int, log *slog.Logger) (*enrich.Converter, *task.WorkerPool, error) {
	profile, err := translit.LoadProfile(profilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transliteration profile: %w", err)
	}
	pool, err := task.NewWorkerPool(task.WorkerPoolConfig{WorkerCount: workers}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	converter := enrich.NewConverter(pool, translit.NewRuleGenerator(profile), translit.NewDetector(profile))
	return converter, pool, nil
}

func newConvertCommand() *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "convert <text>...",
		Short: "Print the candidate conversions of romanized text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

			converter, pool, err := newConverter(profilePath, 1, log)
			if err != nil {
				return err
			}
			defer pool.Release()

			replists, err := converter.TextToReplists(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeReplists(cmd.OutOrStdout(), replists)
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "", "Transliteration profile file (default: built-in)")
	return cmd
}

func writeReplists(w io.Writer, replists []domain.Replist) error {
	rows := make([][]string, len(replists))
	for i, rl := range replists {
		var alternatives []string
		if len(rl.Reps) > 1 {
			alternatives = rl.Reps[1:min(len(rl.Reps), alternativesShown+1)]
		}
		rows[i] = []string{rl.Key, rl.Best(), strconv.Itoa(len(rl.Reps)), strings.Join(alternatives, ", ")}
	}
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"Chunk", "Best", "Candidates", "Alternatives"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	return err
}
