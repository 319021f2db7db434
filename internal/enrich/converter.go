package enrich

import (
	"context"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/task"
	"github.com/phrazzld/arc-api/internal/translit"
)

// Converter turns text into replists, running the generator on the worker pool.
type Converter struct {
	pool      *task.WorkerPool
	generator translit.Generator
	detector  translit.Detector
}

// NewConverter creates a Converter.
func NewConverter(pool *task.WorkerPool, generator translit.Generator, detector translit.Detector) *Converter {
	return &Converter{pool: pool, generator: generator, detector: detector}
}

// TextToReplists returns one replist per chunk of text, each holding at most
// domain.MaxReps representations. Empty text yields an empty list.
func (c *Converter) TextToReplists(ctx context.Context, text string) ([]domain.Replist, error) {
	if text == "" {
		return []domain.Replist{}, nil
	}
	candidates, err := task.Run(ctx, c.pool, func() ([]translit.Candidates, error) {
		return c.generator.Generate(text)
	})
	if err != nil {
		return nil, err
	}
	replists := make([]domain.Replist, len(candidates))
	for i, cand := range candidates {
		replists[i] = domain.NewReplist(cand.Key, cand.Reps)
	}
	return replists, nil
}

// TitleToReplists converts each segment of a title statement independently
// and concatenates the results in main, subtitle, responsibility order.
func (c *Converter) TitleToReplists(ctx context.Context, title string) ([]domain.Replist, error) {
	out := []domain.Replist{}
	for _, part := range domain.SplitTitle(title).Parts() {
		replists, err := c.TextToReplists(ctx, part)
		if err != nil {
			return nil, err
		}
		out = append(out, replists...)
	}
	return out, nil
}

// PersonToReplists converts a personal name, or returns nil when the name
// is not in the target script.
func (c *Converter) PersonToReplists(ctx context.Context, person string) ([]domain.Replist, error) {
	if !c.detector.Detect(person) {
		return nil, nil
	}
	return c.TextToReplists(ctx, person)
}
