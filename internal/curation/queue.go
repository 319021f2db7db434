package curation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Queue hands out identifiers for review. All methods are safe for
// concurrent use; callers are served one at a time.
type Queue struct {
	mu       sync.Mutex
	ids      []string
	position map[string]int
	cursor   int
	store    Store
	logger   *slog.Logger
}

// NewQueue creates a queue over ids, in order, with duplicates removed.
func NewQueue(ids []string, store Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		position: make(map[string]int, len(ids)),
		store:    store,
		logger:   logger.With("component", "curation_queue"),
	}
	for _, id := range ids {
		q.add(id)
	}
	return q
}

func (q *Queue) add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := q.position[id]; ok {
		return false
	}
	q.position[id] = len(q.ids)
	q.ids = append(q.ids, id)
	return true
}

// Len returns the number of identifiers in the queue, accepted or not.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// Next returns the next identifier that has not been accepted. After the
// last identifier it starts over from the first, so skipped identifiers
// come round again. It returns ErrQueueExhausted when every identifier
// has been accepted.
func (q *Queue) Next(ctx context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.next(ctx)
}

func (q *Queue) next(ctx context.Context) (string, error) {
	for range len(q.ids) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id := q.ids[q.cursor]
		q.cursor = (q.cursor + 1) % len(q.ids)

		accepted, err := q.accepted(ctx, id)
		if err != nil {
			return "", err
		}
		if !accepted {
			return id, nil
		}
	}
	return "", ErrQueueExhausted
}

func (q *Queue) accepted(ctx context.Context, id string) (bool, error) {
	payload, ok, err := q.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return ok && payload != RejectedPayload, nil
}

// Skip marks id as rejected and returns the next identifier. The
// identifier stays in rotation.
func (q *Queue) Skip(ctx context.Context, id string) (string, error) {
	return q.record(ctx, id, RejectedPayload)
}

// Submit stores payload as the accepted replacement for id and returns the
// next identifier. An accepted identifier is not returned again unless it
// is enqueued again.
func (q *Queue) Submit(ctx context.Context, id, payload string) (string, error) {
	return q.record(ctx, id, payload)
}

func (q *Queue) record(ctx context.Context, id, payload string) (string, error) {
	if id == "" {
		return "", ErrInvalidIdentifier
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.position[id]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownIdentifier, id)
	}
	if err := q.store.Put(ctx, id, payload); err != nil {
		return "", err
	}
	q.logger.InfoContext(ctx, "curation recorded",
		"id", id,
		"rejected", payload == RejectedPayload)
	return q.next(ctx)
}

// Payload returns what was recorded for id, if anything.
func (q *Queue) Payload(ctx context.Context, id string) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.position[id]; !ok {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownIdentifier, id)
	}
	return q.store.Get(ctx, id)
}

// Enqueue appends new identifiers to the end of the queue and returns
// already queued ones to pending, clearing anything recorded for them.
func (q *Queue) Enqueue(ctx context.Context, ids ...string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, id := range ids {
		if id == "" {
			return ErrInvalidIdentifier
		}
		if _, ok := q.position[id]; ok {
			if err := q.store.Delete(ctx, id); err != nil {
				return err
			}
			continue
		}
		q.add(id)
		added++
	}
	q.logger.DebugContext(ctx, "identifiers enqueued", "requested", len(ids), "added", added)
	return nil
}

// ReadIdentifiers reads one identifier per line. Blank lines and lines
// starting with '#' are ignored.
func ReadIdentifiers(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identifiers: %w", err)
	}
	return ids, nil
}

// LoadSeedFile reads identifiers from the file at path.
func LoadSeedFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadIdentifiers(f)
}
