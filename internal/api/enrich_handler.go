package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/arc-api/internal/api/shared"
	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/enrich"
	"github.com/phrazzld/arc-api/internal/platform/logger"
	"github.com/phrazzld/arc-api/internal/store"
)

// Query parameter names accepted when the input is not in the path.
const (
	RecordsParam = "records"
	TextParam    = "text"
	WordsParam   = "words"
)

// Stream framing for batch results.
const (
	streamOpen      = "["
	streamSeparator = "\n,"
	streamClose     = "\n]"
)

// BatchEnricher enriches records and emits one result per record.
type BatchEnricher interface {
	Stream(ctx context.Context, records []domain.Record, emit func(enrich.Result) error) error
}

// Converter produces candidate transliterations.
type Converter interface {
	TextToReplists(ctx context.Context, text string) ([]domain.Replist, error)
	TitleToReplists(ctx context.Context, title string) ([]domain.Replist, error)
}

// RecordGetter looks up stored records by PPN.
type RecordGetter interface {
	Get(ctx context.Context, ppn string) (domain.Record, error)
}

// PPNResponse is the conversion of a stored record's title.
type PPNResponse struct {
	Record   domain.Record    `json:"record"`
	Replists []domain.Replist `json:"replists"`
}

// PPNError is returned, with status 200, for unknown PPNs.
type PPNError struct {
	Error string `json:"Error"`
	Type  string `json:"type"`
}

// TextQueryResponse is a text conversion together with the index hits for
// its best words.
type TextQueryResponse struct {
	Conversion []domain.Replist `json:"conversion"`
	Matches    []domain.Hit     `json:"matches"`
}

// EnrichHandler serves the enrichment and conversion endpoints.
type EnrichHandler struct {
	enricher  BatchEnricher
	converter Converter
	searcher  enrich.Searcher
	records   RecordGetter
	logger    *slog.Logger
}

// NewEnrichHandler creates an EnrichHandler.
func NewEnrichHandler(
	enricher BatchEnricher,
	converter Converter,
	searcher enrich.Searcher,
	records RecordGetter,
	logger *slog.Logger,
) *EnrichHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichHandler{
		enricher:  enricher,
		converter: converter,
		searcher:  searcher,
		records:   records,
		logger:    logger.With("component", "enrich_handler"),
	}
}

func (h *EnrichHandler) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, h.logger)
}

// respondWithMappedError writes the status and safe message for err.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// Records handles GET /api/records/{records}: it enriches a JSON array of
// records and streams the results as a JSON array in completion order.
//
// Input errors are reported before the stream opens. Once it has opened, a
// fatal error aborts the connection so the client sees a truncated array
// rather than a well-formed partial result.
func (h *EnrichHandler) Records(w http.ResponseWriter, r *http.Request) {
	raw, err := shared.InputParam(r, RecordsParam)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid records parameter", err)
		return
	}
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Records are required")
		return
	}
	records, err := domain.DecodeRecords([]byte(raw))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Malformed records", err)
		return
	}

	ctx := r.Context()
	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(streamOpen)); err != nil {
		h.log(ctx).DebugContext(ctx, "client went away before stream opened", "error", err)
		return
	}
	flush()

	first := true
	err = h.enricher.Stream(ctx, records, func(res enrich.Result) error {
		data, err := shared.MarshalJSON(res)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if !first {
			data = append([]byte(streamSeparator), data...)
		}
		first = false
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		flush()
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			h.log(ctx).DebugContext(ctx, "client went away during stream", "error", err)
		} else {
			h.log(ctx).ErrorContext(ctx, "batch enrichment failed, aborting stream", "error", err)
		}
		// ALLOW-PANIC: http.ErrAbortHandler is how a handler drops the connection
		panic(http.ErrAbortHandler)
	}

	if _, err := w.Write([]byte(streamClose)); err != nil {
		h.log(ctx).DebugContext(ctx, "failed to close stream", "error", err)
		return
	}
	flush()
}

// PPN handles GET /api/ppn/{ppn}: it converts the title of a stored record.
func (h *EnrichHandler) PPN(w http.ResponseWriter, r *http.Request) {
	ppn, err := shared.PathParam(r, "ppn")
	if err != nil || ppn == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid PPN")
		return
	}

	rec, err := h.records.Get(r.Context(), ppn)
	if errors.Is(err, store.ErrNotFound) {
		shared.RespondWithJSON(w, r, http.StatusOK, PPNError{
			Error: fmt.Sprintf("No such PPN %s", ppn),
			Type:  "PPNError",
		})
		return
	}
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	_, title, err := domain.ExtractTitle(rec)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	replists, err := h.converter.TitleToReplists(r.Context(), title)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PPNResponse{Record: rec, Replists: replists})
}

// Text handles GET /api/text/{text}: it returns the replists of free text.
func (h *EnrichHandler) Text(w http.ResponseWriter, r *http.Request) {
	text, err := shared.InputParam(r, TextParam)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid text parameter", err)
		return
	}

	replists, err := h.converter.TextToReplists(r.Context(), text)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, replists)
}

// NLI handles GET /api/nli/{words}: it queries the index with a JSON array
// of words and returns the matching catalog documents.
func (h *EnrichHandler) NLI(w http.ResponseWriter, r *http.Request) {
	raw, err := shared.InputParam(r, WordsParam)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid words parameter", err)
		return
	}
	var words []string
	if err := shared.DecodeJSONParam(raw, &words); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Words must be a JSON array of strings", err)
		return
	}

	hits, err := h.searcher.Query(r.Context(), words)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(hits))
}

// TextQuery handles GET /api/textquery/{text}: it converts text and queries
// the index with the best representation of each chunk.
func (h *EnrichHandler) TextQuery(w http.ResponseWriter, r *http.Request) {
	text, err := shared.InputParam(r, TextParam)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid text parameter", err)
		return
	}

	replists, err := h.converter.TextToReplists(r.Context(), text)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	hits, err := h.searcher.Query(r.Context(), domain.BestWords(replists))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TextQueryResponse{
		Conversion: replists,
		Matches:    nonNil(hits),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
