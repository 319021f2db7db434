package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/arc-api/internal/config"
	"github.com/phrazzld/arc-api/internal/domain"
)

// Document is one raw index document, keyed by stored field name.
type Document map[string]json.RawMessage

type selectResponse struct {
	Response struct {
		NumFound int        `json:"numFound"`
		Docs     []Document `json:"docs"`
	} `json:"response"`
}

// Client queries one core of the search index.
type Client struct {
	httpClient *http.Client
	endpoint   string
	rows       int
	logger     *slog.Logger
}

// NewClient creates a client for cfg.Core at cfg.URL.
func NewClient(cfg config.SearchConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	base, err := url.Parse(cfg.URL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid search url %q", cfg.URL)
	}
	if cfg.Core == "" {
		return nil, fmt.Errorf("search core cannot be empty")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rows := cfg.Rows
	if rows <= 0 {
		rows = 20
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   base.JoinPath(cfg.Core, "select").String(),
		rows:       rows,
		logger:     logger.With("component", "search_client", "core", cfg.Core),
	}, nil
}

// RunQuery runs q and returns the requested stored fields of each document.
func (c *Client) RunQuery(ctx context.Context, q string, fields []string) ([]Document, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("wt", "json")
	params.Set("rows", strconv.Itoa(c.rows))
	if len(fields) > 0 {
		params.Set("fl", strings.Join(fields, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("%w: status %d", ErrIndexUnavailable, resp.StatusCode)
	}

	var out selectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	c.logger.DebugContext(ctx, "search query completed",
		"query", q,
		"num_found", out.Response.NumFound,
		"returned", len(out.Response.Docs),
		"duration_ms", time.Since(start).Milliseconds())
	return out.Response.Docs, nil
}

// Query searches the title field for words and decodes each matching
// catalog record. Words that reduce to an empty query yield no hits.
func (c *Client) Query(ctx context.Context, words []string) ([]domain.Hit, error) {
	q, err := BuildQuery(words)
	if errors.Is(err, ErrEmptyQuery) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	docs, err := c.RunQuery(ctx, FieldQuery(TitleField, q), []string{StoredRecordField})
	if err != nil {
		return nil, err
	}

	hits := make([]domain.Hit, 0, len(docs))
	for i, doc := range docs {
		hit, err := decodeStoredRecord(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// decodeStoredRecord parses the stored record, which the index keeps either
// as a JSON string or as an embedded object.
func decodeStoredRecord(doc Document) (domain.Hit, error) {
	raw, ok := doc[StoredRecordField]
	if !ok {
		return domain.Hit{}, fmt.Errorf("%w: missing %s", ErrMalformedResponse, StoredRecordField)
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}
	hit, err := domain.ParseHit(raw)
	if err != nil {
		return domain.Hit{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return hit, nil
}
