package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apiMiddleware "github.com/phrazzld/arc-api/internal/api/middleware"
	"github.com/phrazzld/arc-api/internal/domain"
)

func get(t *testing.T, srv *httptest.Server, path string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	index := newFakeIndex(t, nil)
	app := newTestApplication(t, testConfig(index.URL), openTestDB(t, nil))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	resp, body := get(t, srv, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health healthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.QueueSize)
}

func TestRecordsEndToEnd(t *testing.T) {
	index := newFakeIndex(t, map[string]string{"שלום": catalogDoc(t, "990001", "שלום")})
	app := newTestApplication(t, testConfig(index.URL), openTestDB(t, nil))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	input := `[{"title":"shalom","date":"1990"},{"title":""},{"title":"sefer"}]`
	resp, body := get(t, srv, "/api/records/"+url.PathEscape(input), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &results))
	require.Len(t, results, 3)

	byReason := map[any]map[string]any{}
	for _, r := range results {
		byReason[r["error"]] = r
	}
	enriched := byReason[nil]
	require.NotNil(t, enriched)
	assert.Equal(t, []any{"shalom", "שלום"}, enriched["title"])
	assert.Equal(t, []any{"https://www.nli.org.il/en/books/NNL_ALEPH990001/NLI"}, enriched["relation"])

	assert.Contains(t, byReason, domain.ReasonNoTitleGiven)
	require.Contains(t, byReason, domain.ReasonNoMatches)
	assert.NotEmpty(t, byReason[domain.ReasonNoMatches]["best_guess"])
}

func TestRecordsIndexFailureAbortsConnection(t *testing.T) {
	index := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer index.Close()
	app := newTestApplication(t, testConfig(index.URL), openTestDB(t, nil))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/records?records=" + url.QueryEscape(`[{"title":"shalom"}]`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "the stream has already opened")
	_, err = io.ReadAll(resp.Body)
	assert.Error(t, err, "an aborted stream must not look complete")
}

func TestPPNRoute(t *testing.T) {
	index := newFakeIndex(t, nil)
	db := openTestDB(t, map[string]domain.Record{"000100": {"title": {"shalom"}}})
	app := newTestApplication(t, testConfig(index.URL), db)
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	resp, body := get(t, srv, "/api/ppn/000100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "שלום")

	resp, body = get(t, srv, "/api/ppn/missing", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"Error":"No such PPN missing","type":"PPNError"}`, body)
}

func TestQueueRoutesRequireCuratorKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("curator"), bcrypt.MinCost)
	require.NoError(t, err)

	index := newFakeIndex(t, nil)
	cfg := testConfig(index.URL)
	cfg.Curation.CuratorKeyHash = string(hash)
	db := openTestDB(t, map[string]domain.Record{
		"000200": {"title": {"b"}},
		"000100": {"title": {"a"}},
	})
	app := newTestApplication(t, cfg, db)
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	resp, _ := get(t, srv, "/api/queue/next", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	key := http.Header{apiMiddleware.CuratorKeyHeader: {"curator"}}
	resp, body := get(t, srv, "/api/queue/next", key)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "000100", body, "queue is seeded from the record store in PPN order")

	resp, body = get(t, srv, "/api/queue/skip/000100", key)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "000200", body)
}
