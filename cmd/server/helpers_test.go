package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/arc-api/internal/config"
	"github.com/phrazzld/arc-api/internal/domain"
	"github.com/phrazzld/arc-api/internal/platform/database"
	"github.com/phrazzld/arc-api/internal/platform/logger"
	"github.com/phrazzld/arc-api/internal/testdb"
)

func testLogger() *slog.Logger {
	_, log := logger.NewTestLogger()
	return log
}

// catalogDoc is a stored MARC-in-JSON document for one catalog record.
func catalogDoc(t *testing.T, id, title string) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"controlfields": map[string]string{"001": id},
		"datafields": map[string]any{
			"245": []map[string][]string{{"a": {title}}},
		},
	})
	require.NoError(t, err)
	return string(data)
}

// newFakeIndex serves a search core that returns docs for queries
// containing one of its keys, and nothing otherwise.
func newFakeIndex(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nlibooks/select" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query().Get("q")
		out := []map[string]string{}
		for word, doc := range docs {
			if strings.Contains(q, word) {
				out = append(out, map[string]string{"originalData": doc})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{"numFound": len(out), "docs": out},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(searchURL string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug", ShutdownTimeoutSeconds: 5},
		Database: config.DatabaseConfig{Driver: database.DriverSQLite, URL: ":memory:"},
		Search:   config.SearchConfig{URL: searchURL, Core: "nlibooks", TimeoutSeconds: 5, Rows: 10},
		Enrich:   config.EnrichConfig{WorkerCount: 2, MaxInflightQueries: 2},
		Curation: config.CurationConfig{Store: "memory"},
	}
}

// openTestDB opens a migrated in-memory database holding records.
func openTestDB(t *testing.T, records map[string]domain.Record) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db := testdb.OpenMemory(t)

	rs := database.NewRecordStore(db, testLogger())
	for ppn, rec := range records {
		require.NoError(t, rs.Put(ctx, ppn, rec))
	}
	return db
}

func newTestApplication(t *testing.T, cfg *config.Config, db *sql.DB) *application {
	t.Helper()
	app, err := newApplication(context.Background(), cfg, testLogger(), db)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}
