package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/arc-api/internal/api"
	apiMiddleware "github.com/phrazzld/arc-api/internal/api/middleware"
	"github.com/phrazzld/arc-api/internal/api/shared"
)

const healthPingTimeout = 2 * time.Second

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	enrichHandler := api.NewEnrichHandler(app.coordinator, app.converter, app.searcher, app.records, app.logger)
	queueHandler := api.NewQueueHandler(app.queue, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Inputs are taken from the path, or from a query parameter when
		// the path segment is empty.
		r.Get("/records", enrichHandler.Records)
		r.Get("/records/*", enrichHandler.Records)
		r.Get("/ppn/{ppn}", enrichHandler.PPN)
		r.Get("/text", enrichHandler.Text)
		r.Get("/text/*", enrichHandler.Text)
		r.Get("/nli", enrichHandler.NLI)
		r.Get("/nli/*", enrichHandler.NLI)
		r.Get("/textquery", enrichHandler.TextQuery)
		r.Get("/textquery/*", enrichHandler.TextQuery)

		r.Route("/queue", func(r chi.Router) {
			if app.curatorAuth != nil {
				r.Use(app.curatorAuth.Require)
			}
			r.Get("/next", queueHandler.Next)
			r.Get("/skip/{ppn}", queueHandler.Skip)
			r.Get("/submit", queueHandler.Submit)
			r.Get("/submit/*", queueHandler.Submit)
		})
	})

	r.Get("/health", app.health)

	return r
}

type healthResponse struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	WorkersRunning int    `json:"workers_running"`
	QueueSize      int    `json:"queue_size"`
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		Database:       "ok",
		WorkersRunning: app.pool.Running(),
		QueueSize:      app.queue.Len(),
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Warn("health check database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, resp)
}
