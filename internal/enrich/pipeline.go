package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/platform/logger"
	"github.com/phrazzld/arc-api/internal/rank"
	"github.com/phrazzld/arc-api/internal/task"
)

// LinkTemplate formats a catalog control number as a record link.
const LinkTemplate = "https://www.nli.org.il/en/books/NNL_ALEPH%s/NLI"

// State is a step of the per-record pipeline.
type State string

const (
	StateExtracting State = "extracting"
	StateGenerating State = "generating"
	StateQuerying   State = "querying"
	StateRanking    State = "ranking"
	StateMerged     State = "merged"
	StateFailed     State = "failed"
)

// Searcher finds catalog hits for title words.
type Searcher interface {
	Query(ctx context.Context, words []string) ([]domain.Hit, error)
}

// Pipeline enriches one record at a time. It holds no per-record state and
// is safe for concurrent use.
type Pipeline struct {
	converter *Converter
	searcher  Searcher
	ranker    rank.Ranker
	pool      *task.WorkerPool
}

// NewPipeline creates a Pipeline. Ranking runs on pool.
func NewPipeline(converter *Converter, searcher Searcher, ranker rank.Ranker, pool *task.WorkerPool) *Pipeline {
	return &Pipeline{
		converter: converter,
		searcher:  searcher,
		ranker:    ranker,
		pool:      pool,
	}
}

func transition(ctx context.Context, state State, attrs ...any) {
	logger.FromContext(ctx).DebugContext(ctx, "pipeline state",
		append([]any{slog.String("state", string(state))}, attrs...)...)
}

// Prepare extracts the title of rec and derives title and creator
// candidates. Expected failures are reported in the Outcome; the error is
// non-nil only for failures the caller cannot recover from.
func (p *Pipeline) Prepare(ctx context.Context, rec domain.Record) (Outcome, error) {
	transition(ctx, StateExtracting)
	field, title, err := domain.ExtractTitle(rec)
	if err != nil {
		return p.fail(ctx, err)
	}

	transition(ctx, StateGenerating, "field", field)
	titleReplists, err := p.converter.TitleToReplists(ctx, title)
	if err != nil {
		return p.fail(ctx, err)
	}

	creators := rec.Get(domain.FieldCreator)
	creatorReplists := make([][]domain.Replist, len(creators))
	for i, creator := range creators {
		creatorReplists[i], err = p.converter.PersonToReplists(ctx, creator)
		if err != nil {
			return p.fail(ctx, err)
		}
	}

	return Outcome{
		TitleField:      field,
		TitleReplists:   titleReplists,
		CreatorReplists: creatorReplists,
	}, nil
}

func (p *Pipeline) fail(ctx context.Context, err error) (Outcome, error) {
	kind, ok := Classify(err)
	if !ok {
		return Outcome{}, err
	}
	transition(ctx, StateFailed, "reason", string(kind))
	return Outcome{Failure: kind}, nil
}

// Match queries the index with the prepared candidates, ranks the hits and
// merges the best one into a copy of rec.
func (p *Pipeline) Match(ctx context.Context, rec domain.Record, out Outcome) (Result, error) {
	words := domain.BestWords(out.TitleReplists)

	transition(ctx, StateQuerying, "words", len(words))
	hits, err := p.searcher.Query(ctx, words)
	if err != nil {
		return Result{}, fmt.Errorf("query index: %w", err)
	}
	if len(hits) == 0 {
		return p.noMatches(ctx, rec, words), nil
	}

	transition(ctx, StateRanking, "hits", len(hits))
	creators := detectedCreators(rec.Get(domain.FieldCreator), out.CreatorReplists)
	dates := rec.Get(domain.FieldDate)
	repSets := domain.RepSets(out.TitleReplists)
	ranked, err := task.Run(ctx, p.pool, func() ([]domain.Hit, error) {
		return p.ranker.Rank(creators, dates, repSets, hits), nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rank hits: %w", err)
	}
	if len(ranked) == 0 {
		return p.noMatches(ctx, rec, words), nil
	}

	enriched := Merge(rec, out.TitleField, ranked)
	transition(ctx, StateMerged, "ranked", len(ranked))
	return Enriched(enriched), nil
}

func (p *Pipeline) noMatches(ctx context.Context, rec domain.Record, words []string) Result {
	transition(ctx, StateFailed, "reason", domain.ReasonNoMatches)
	return Failed(domain.NoMatches(rec, strings.Join(words, " ")))
}

// Enrich runs the whole pipeline on rec.
func (p *Pipeline) Enrich(ctx context.Context, rec domain.Record) (Result, error) {
	out, err := p.Prepare(ctx, rec)
	if err != nil {
		return Result{}, err
	}
	if out.Failed() {
		return Failed(domain.NewErrorEntry(string(out.Failure), rec)), nil
	}
	return p.Match(ctx, rec, out)
}

// Merge returns a copy of rec with the top hit's title appended to
// titleField and a link to every hit appended to the relation field.
func Merge(rec domain.Record, titleField string, ranked []domain.Hit) domain.Record {
	links := make([]string, len(ranked))
	for i, h := range ranked {
		links[i] = fmt.Sprintf(LinkTemplate, h.ControlNumber())
	}
	return rec.
		With(titleField, ranked[0].RecordTitle()).
		With(domain.FieldRelation, links...)
}

// detectedCreators keeps the creators that produced candidates.
func detectedCreators(creators []string, replists [][]domain.Replist) []string {
	out := make([]string, 0, len(creators))
	for i, c := range creators {
		if i < len(replists) && replists[i] != nil {
			out = append(out, c)
		}
	}
	return out
}
