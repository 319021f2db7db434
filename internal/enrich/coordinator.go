package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/phrazzld/arc-api/internal/config"
	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/platform/logger"
)

// Coordinator enriches batches of records.
type Coordinator struct {
	pipeline           *Pipeline
	maxInflightQueries int64
	logger             *slog.Logger
}

// NewCoordinator creates a Coordinator over pipeline.
func NewCoordinator(pipeline *Pipeline, cfg config.EnrichConfig, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		pipeline:           pipeline,
		maxInflightQueries: int64(cfg.MaxInflightQueries),
		logger:             log.With("component", "enrich_coordinator"),
	}
}

// limitedSearcher bounds concurrent index queries.
type limitedSearcher struct {
	Searcher
	sem *semaphore.Weighted
}

func (s limitedSearcher) Query(ctx context.Context, words []string) ([]domain.Hit, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return s.Searcher.Query(ctx, words)
}

// Stream enriches every record concurrently and calls emit once per record,
// in completion order. Calls to emit are serialized. Expected per-record
// failures are emitted as error entries. The first unexpected error, or
// error from emit, cancels the remaining records and is returned.
func (c *Coordinator) Stream(ctx context.Context, records []domain.Record, emit func(Result) error) error {
	batchID := uuid.NewString()
	log := logger.FromContextOrDefault(ctx, c.logger).With("batch_id", batchID)
	start := time.Now()
	log.InfoContext(ctx, "batch started", "records", len(records))

	pipeline := c.pipeline
	if c.maxInflightQueries > 0 {
		limited := *c.pipeline
		limited.searcher = limitedSearcher{
			Searcher: c.pipeline.searcher,
			sem:      semaphore.NewWeighted(c.maxInflightQueries),
		}
		pipeline = &limited
	}

	var (
		mu      sync.Mutex
		failed  int
		stopped bool
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, rec := range records {
		g.Go(func() error {
			rctx := logger.WithLogger(gctx, log.With("record_index", i))
			res, err := pipeline.Enrich(rctx, rec)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return context.Canceled
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			if res.Error != nil {
				failed++
			}
			if err := emit(res); err != nil {
				stopped = true
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "batch aborted",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return err
	}

	log.InfoContext(ctx, "batch completed",
		"records", len(records),
		"error_entries", failed,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
