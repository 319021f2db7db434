package curation

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// storeFactories runs each queue test against every Store implementation.
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"badger": func() Store {
			s, err := OpenBadgerStore("", testLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, newStore func() Store)) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) { fn(t, factory) })
	}
}

func mustNext(t *testing.T, q *Queue) string {
	t.Helper()
	id, err := q.Next(context.Background())
	require.NoError(t, err)
	return id
}

func TestQueueNextCycles(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func() Store) {
		q := NewQueue([]string{"a", "b", "c", "b"}, newStore(), testLogger())

		assert.Equal(t, 3, q.Len())
		var got []string
		for range 6 {
			got = append(got, mustNext(t, q))
		}
		assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, got)
	})
}

func TestQueueSubmitRemovesFromRotation(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func() Store) {
		ctx := context.Background()
		q := NewQueue([]string{"a", "b", "c"}, newStore(), testLogger())

		assert.Equal(t, "a", mustNext(t, q))
		next, err := q.Submit(ctx, "a", `{"ppn":"a"}`)
		require.NoError(t, err)
		assert.Equal(t, "b", next)

		for range 10 {
			assert.NotEqual(t, "a", mustNext(t, q))
		}

		payload, ok, err := q.Payload(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"ppn":"a"}`, payload)
	})
}

func TestQueueSkipMarksNullAndKeepsSequence(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func() Store) {
		ctx := context.Background()
		q := NewQueue([]string{"a", "b"}, newStore(), testLogger())

		assert.Equal(t, "a", mustNext(t, q))
		next, err := q.Skip(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "b", next)

		payload, ok, err := q.Payload(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "null", payload)

		// Skipped identifiers come round again.
		assert.Equal(t, "a", mustNext(t, q))
	})
}

func TestQueueExhausted(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func() Store) {
		ctx := context.Background()
		q := NewQueue([]string{"a", "b"}, newStore(), testLogger())

		_, err := q.Submit(ctx, "a", "{}")
		require.NoError(t, err)
		_, err = q.Submit(ctx, "b", "{}")
		assert.ErrorIs(t, err, ErrQueueExhausted)

		_, err = q.Next(ctx)
		assert.ErrorIs(t, err, ErrQueueExhausted)
	})

	_, err := NewQueue(nil, NewMemoryStore(), testLogger()).Next(context.Background())
	assert.ErrorIs(t, err, ErrQueueExhausted)
}

func TestQueueEnqueue(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func() Store) {
		ctx := context.Background()
		q := NewQueue([]string{"a"}, newStore(), testLogger())

		_, err := q.Submit(ctx, "a", "{}")
		require.ErrorIs(t, err, ErrQueueExhausted)

		require.NoError(t, q.Enqueue(ctx, "a", "z"))
		assert.Equal(t, 2, q.Len())

		seen := map[string]bool{mustNext(t, q): true, mustNext(t, q): true}
		assert.Equal(t, map[string]bool{"a": true, "z": true}, seen)

		_, ok, err := q.Payload(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.ErrorIs(t, q.Enqueue(ctx, ""), ErrInvalidIdentifier)
	})
}

func TestQueueUnknownIdentifier(t *testing.T) {
	ctx := context.Background()
	q := NewQueue([]string{"a"}, NewMemoryStore(), testLogger())

	_, err := q.Skip(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, err = q.Submit(ctx, "nope", "{}")
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, _, err = q.Payload(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, err = q.Submit(ctx, "", "{}")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestQueueConcurrentCallersNeverShareCursor(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = string(rune('A' + i))
	}
	q := NewQueue(ids, NewMemoryStore(), testLogger())

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for range len(ids) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := q.Next(context.Background())
			assert.NoError(t, err)
			mu.Lock()
			seen[id]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, len(ids))
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s returned twice in one pass", id)
	}
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a", "payload"))
	require.NoError(t, s.Close())

	s, err = OpenBadgerStore(dir, testLogger())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", got)

	require.NoError(t, s.Delete(ctx, "a"))
	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadIdentifiers(t *testing.T) {
	ids, err := ReadIdentifiers(strings.NewReader("# seed\n001\n\n  002  \n003\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002", "003"}, ids)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ny\n"), 0o600))

	ids, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
