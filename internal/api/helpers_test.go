package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/arc-api/internal/config"
	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/enrich"
	"github.com/phrazzld/arc-api/internal/platform/logger"
	"github.com/phrazzld/arc-api/internal/rank"
	"github.com/phrazzld/arc-api/internal/store"
	"github.com/phrazzld/arc-api/internal/task"
	"github.com/phrazzld/arc-api/internal/translit"
)

// fakeSearcher returns the same hits for every query.
type fakeSearcher struct {
	mu      sync.Mutex
	hits    []domain.Hit
	err     error
	queries [][]string
}

func (f *fakeSearcher) Query(_ context.Context, words []string) ([]domain.Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, words)
	return f.hits, f.err
}

type fakeRecords map[string]domain.Record

func (f fakeRecords) Get(_ context.Context, ppn string) (domain.Record, error) {
	rec, ok := f[ppn]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return rec, nil
}

// fakeEnricher emits results and then returns err.
type fakeEnricher struct {
	results []enrich.Result
	err     error
}

func (f *fakeEnricher) Stream(_ context.Context, _ []domain.Record, emit func(enrich.Result) error) error {
	for _, res := range f.results {
		if err := emit(res); err != nil {
			return err
		}
	}
	return f.err
}

func testLogger() *slog.Logger {
	_, log := logger.NewTestLogger()
	return log
}

func newHit(t *testing.T, id, title string) domain.Hit {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"controlfields": map[string]string{"001": id},
		"datafields": map[string]any{
			"245": []map[string][]string{{"a": {title}}},
		},
	})
	require.NoError(t, err)
	h, err := domain.ParseHit(data)
	require.NoError(t, err)
	return h
}

// newTestConverter uses the built-in transliteration profile.
func newTestConverter(t *testing.T) (*enrich.Converter, *task.WorkerPool) {
	t.Helper()
	pool, err := task.NewWorkerPool(task.WorkerPoolConfig{WorkerCount: 4}, testLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	profile, err := translit.DefaultProfile()
	require.NoError(t, err)
	return enrich.NewConverter(pool, translit.NewRuleGenerator(profile), translit.NewDetector(profile)), pool
}

// newTestEnrichHandler wires the real pipeline around a fake index.
func newTestEnrichHandler(t *testing.T, searcher *fakeSearcher, records fakeRecords) *EnrichHandler {
	t.Helper()
	converter, pool := newTestConverter(t)
	pipeline := enrich.NewPipeline(converter, searcher, rank.NewScoreRanker(), pool)
	coordinator := enrich.NewCoordinator(pipeline, config.EnrichConfig{MaxInflightQueries: 2}, testLogger())
	return NewEnrichHandler(coordinator, converter, searcher, records, testLogger())
}

func newTestRouter(enrichHandler *EnrichHandler, queueHandler *QueueHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		if enrichHandler != nil {
			r.Get("/records", enrichHandler.Records)
			r.Get("/records/*", enrichHandler.Records)
			r.Get("/ppn/{ppn}", enrichHandler.PPN)
			r.Get("/text/*", enrichHandler.Text)
			r.Get("/nli/*", enrichHandler.NLI)
			r.Get("/textquery/*", enrichHandler.TextQuery)
		}
		if queueHandler != nil {
			r.Get("/queue/next", queueHandler.Next)
			r.Get("/queue/skip/{ppn}", queueHandler.Skip)
			r.Get("/queue/submit", queueHandler.Submit)
			r.Get("/queue/submit/*", queueHandler.Submit)
		}
	})
	return r
}
