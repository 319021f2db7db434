package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/arc-api/internal/api/shared"
	"github.com/phrazzld/arc-api/internal/curation"
)

// PayloadParam is the query parameter carrying a submission when the path
// segment is empty.
const PayloadParam = "payload"

// CurationQueue hands out record identifiers for manual review.
type CurationQueue interface {
	Next(ctx context.Context) (string, error)
	Skip(ctx context.Context, id string) (string, error)
	Submit(ctx context.Context, id, payload string) (string, error)
}

// SubmitRequest is the part of a curation submission the server reads. The
// rest of the document is stored as given.
type SubmitRequest struct {
	PPN string `json:"ppn" validate:"required,max=64,excludesall=/?#"`
}

// QueueHandler serves the curation queue endpoints. Every response body is
// the next identifier to review, as plain text.
type QueueHandler struct {
	queue  CurationQueue
	logger *slog.Logger
}

// NewQueueHandler creates a QueueHandler.
func NewQueueHandler(queue CurationQueue, logger *slog.Logger) *QueueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueHandler{
		queue:  queue,
		logger: logger.With("component", "queue_handler"),
	}
}

func (h *QueueHandler) respondNext(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case errors.Is(err, curation.ErrQueueExhausted):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		respondWithMappedError(w, r, err)
	default:
		shared.RespondWithText(w, r, http.StatusOK, id)
	}
}

// Next handles GET /api/queue/next.
func (h *QueueHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, err := h.queue.Next(r.Context())
	h.respondNext(w, r, id, err)
}

// Skip handles GET /api/queue/skip/{ppn}: it marks the record as rejected.
func (h *QueueHandler) Skip(w http.ResponseWriter, r *http.Request) {
	ppn, err := shared.PathParam(r, "ppn")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid PPN", err)
		return
	}

	id, err := h.queue.Skip(r.Context(), ppn)
	h.respondNext(w, r, id, err)
}

// Submit handles GET /api/queue/submit/{payload}: it stores a curated JSON
// document under the PPN it names.
func (h *QueueHandler) Submit(w http.ResponseWriter, r *http.Request) {
	raw, err := shared.InputParam(r, PayloadParam)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid payload parameter", err)
		return
	}

	var req SubmitRequest
	if err := shared.DecodeJSONParam(raw, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	id, err := h.queue.Submit(r.Context(), req.PPN, raw)
	if err == nil {
		h.logger.InfoContext(r.Context(), "curation submitted", "ppn", req.PPN)
	}
	h.respondNext(w, r, id, err)
}
