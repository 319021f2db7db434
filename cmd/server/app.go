package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/phrazzld/arc-api/internal/api/middleware"
	"github.com/phrazzld/arc-api/internal/config"
	"github.com/phrazzld/arc-api/internal/curation"
	"github.com/phrazzld/arc-api/internal/enrich"
	"github.com/phrazzld/arc-api/internal/platform/database"
	"github.com/phrazzld/arc-api/internal/rank"
	"github.com/phrazzld/arc-api/internal/search"
	"github.com/phrazzld/arc-api/internal/store"
	"github.com/phrazzld/arc-api/internal/task"
)

// application holds the shared application dependencies and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Process-wide worker pool for CPU-bound candidate generation and ranking.
	pool *task.WorkerPool

	records     store.RecordStore
	searcher    enrich.Searcher
	converter   *enrich.Converter
	coordinator *enrich.Coordinator

	curationStore curation.Store
	queue         *curation.Queue

	// nil leaves the curation routes open
	curatorAuth *apiMiddleware.CuratorAuth
}

// newApplication creates the application around an open database. On
// error, everything created so far is released, but db is left open.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	initialized := false
	defer func() {
		if !initialized {
			app.cleanup()
		}
	}()

	var err error
	app.converter, app.pool, err = newConverter(cfg.Translit.ProfilePath, cfg.Enrich.WorkerCount, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("worker pool initialized", "workers", app.pool.Size())

	app.searcher, err = search.NewClient(cfg.Search, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	app.records = database.NewRecordStore(db, logger)

	pipeline := enrich.NewPipeline(app.converter, app.searcher, rank.NewScoreRanker(), app.pool)
	app.coordinator = enrich.NewCoordinator(pipeline, cfg.Enrich, logger)

	app.curationStore, err = openCurationStore(cfg.Curation, logger)
	if err != nil {
		return nil, err
	}
	ids, err := seedIdentifiers(ctx, cfg.Curation, app.records)
	if err != nil {
		return nil, err
	}
	app.queue = curation.NewQueue(ids, app.curationStore, logger)
	logger.Info("curation queue initialized",
		"identifiers", app.queue.Len(),
		"store", cfg.Curation.Store)

	if cfg.Curation.CuratorKeyHash != "" {
		app.curatorAuth, err = apiMiddleware.NewCuratorAuth(cfg.Curation.CuratorKeyHash)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no curator key configured, curation routes are open")
	}

	// Owned from here on; closed by cleanup.
	app.db = db
	initialized = true
	logger.Info("application initialized")
	return app, nil
}

func openCurationStore(cfg config.CurationConfig, logger *slog.Logger) (curation.Store, error) {
	switch cfg.Store {
	case "badger":
		s, err := curation.OpenBadgerStore(cfg.BadgerPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open curation store: %w", err)
		}
		return s, nil
	default:
		return curation.NewMemoryStore(), nil
	}
}

// seedIdentifiers reads the configured seed file, or lists the record store
// when there is none.
func seedIdentifiers(ctx context.Context, cfg config.CurationConfig, records store.RecordStore) ([]string, error) {
	if cfg.SeedFile != "" {
		ids, err := curation.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load curation seed file: %w", err)
		}
		return ids, nil
	}
	ids, err := records.Identifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list record identifiers: %w", err)
	}
	return ids, nil
}

// Run serves HTTP until ctx is canceled or the process is signaled, then
// releases the application's resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources. It is safe on a partially
// initialized application.
func (app *application) cleanup() {
	if app.pool != nil {
		app.pool.Release()
	}

	if app.curationStore != nil {
		if err := app.curationStore.Close(); err != nil {
			app.logger.Error("error closing curation store", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
