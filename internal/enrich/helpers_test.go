package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/task"
	"github.com/phrazzld/arc-api/internal/translit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPool(t *testing.T) *task.WorkerPool {
	t.Helper()
	pool, err := task.NewWorkerPool(task.WorkerPoolConfig{WorkerCount: 4}, testLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

// fakeGenerator maps every chunk to "heb:<chunk>". The chunk "explode"
// fails, and a chunk "many" yields 100 representations.
type fakeGenerator struct{}

func (fakeGenerator) Generate(text string) ([]translit.Candidates, error) {
	var out []translit.Candidates
	for _, chunk := range strings.Fields(text) {
		switch chunk {
		case "explode":
			return nil, fmt.Errorf("expand %q: %w", chunk, translit.ErrCombinatorialExplosion)
		case "many":
			reps := make([]string, 100)
			for i := range reps {
				reps[i] = fmt.Sprintf("rep%d", i)
			}
			out = append(out, translit.Candidates{Key: chunk, Reps: reps})
		default:
			out = append(out, translit.Candidates{Key: chunk, Reps: []string{"heb:" + chunk, "alt:" + chunk}})
		}
	}
	return out, nil
}

// fakeDetector accepts names that do not start with an ASCII capital "C".
type fakeDetector struct{}

func (fakeDetector) Detect(text string) bool {
	return !strings.HasPrefix(text, "C")
}

type fakeSearcher struct {
	query func(ctx context.Context, words []string) ([]domain.Hit, error)

	mu    sync.Mutex
	calls [][]string
}

func (s *fakeSearcher) Query(ctx context.Context, words []string) ([]domain.Hit, error) {
	s.mu.Lock()
	s.calls = append(s.calls, words)
	s.mu.Unlock()
	if s.query == nil {
		return nil, nil
	}
	return s.query(ctx, words)
}

type rankCall struct {
	creators []string
	dates    []string
	repSets  [][]string
}

// fakeRanker returns the hits unchanged unless rank is set.
type fakeRanker struct {
	rank func(hits []domain.Hit) []domain.Hit

	mu    sync.Mutex
	calls []rankCall
}

func (r *fakeRanker) Rank(creators, dates []string, repSets [][]string, hits []domain.Hit) []domain.Hit {
	r.mu.Lock()
	r.calls = append(r.calls, rankCall{creators: creators, dates: dates, repSets: repSets})
	r.mu.Unlock()
	if r.rank == nil {
		return hits
	}
	return r.rank(hits)
}

func newHit(t *testing.T, id, title string) domain.Hit {
	t.Helper()
	doc := map[string]any{
		"controlfields": map[string]string{"001": id},
		"datafields": map[string]any{
			"245": []map[string][]string{{"a": {title}}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	h, err := domain.ParseHit(data)
	require.NoError(t, err)
	return h
}

func newTestPipeline(t *testing.T, searcher Searcher, ranker *fakeRanker) *Pipeline {
	t.Helper()
	pool := newTestPool(t)
	return NewPipeline(NewConverter(pool, fakeGenerator{}, fakeDetector{}), searcher, ranker, pool)
}
