package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"compostbot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDocuments_PutGet(t *testing.T) {
	s := newTestStore(t)
	docs := s.Documents()
	ctx := context.Background()

	doc := domain.Document{
		ID:     "uploads/guide.pdf",
		Title:  "guide",
		Text:   "Composting is...",
		Status: domain.StatusPending,
	}
	require.NoError(t, docs.Put(ctx, doc))

	got, err := docs.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestDocuments_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Documents().Get(context.Background(), "nope")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocuments_PutOverwrites(t *testing.T) {
	s := newTestStore(t)
	docs := s.Documents()
	ctx := context.Background()

	require.NoError(t, docs.Put(ctx, domain.Document{ID: "d1", Title: "v1", Text: "old", Status: domain.StatusProcessed}))
	require.NoError(t, docs.Put(ctx, domain.Document{ID: "d1", Title: "v2", Text: "new", Status: domain.StatusPending}))

	got, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "new", got.Text)
	require.Equal(t, domain.StatusPending, got.Status)
}

func TestDocuments_ListByStatus(t *testing.T) {
	s := newTestStore(t)
	docs := s.Documents()
	ctx := context.Background()

	require.NoError(t, docs.Put(ctx, domain.Document{ID: "a", Title: "a", Text: "x", Status: domain.StatusPending}))
	require.NoError(t, docs.Put(ctx, domain.Document{ID: "b", Title: "b", Text: "y", Status: domain.StatusProcessed}))
	require.NoError(t, docs.Put(ctx, domain.Document{ID: "c", Title: "c", Text: "z", Status: domain.StatusPending}))

	pending, err := docs.ListByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	processed, err := docs.ListByStatus(ctx, domain.StatusProcessed)
	require.NoError(t, err)
	require.Len(t, processed, 1)
	require.Equal(t, "b", processed[0].ID)
}

func TestDocuments_SetStatus(t *testing.T) {
	s := newTestStore(t)
	docs := s.Documents()
	ctx := context.Background()

	require.NoError(t, docs.Put(ctx, domain.Document{ID: "d1", Title: "t", Text: "x", Status: domain.StatusPending}))
	require.NoError(t, docs.SetStatus(ctx, "d1", domain.StatusProcessed))

	got, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusProcessed, got.Status)

	err = docs.SetStatus(ctx, "missing", domain.StatusProcessed)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLedger_EmptyForUnknownDocument(t *testing.T) {
	s := newTestStore(t)

	ids, err := s.Ledger().VectorIDs(context.Background(), "unknown")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestLedger_PutAndReplace(t *testing.T) {
	s := newTestStore(t)
	ledger := s.Ledger()
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, "d1", []string{"v1", "v2"}))

	ids, err := ledger.VectorIDs(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, []string{"v1", "v2"}, ids)

	// A re-sync overwrites the entry; no ids from the prior version remain.
	require.NoError(t, ledger.Put(ctx, "d1", []string{"v3"}))

	ids, err = ledger.VectorIDs(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, []string{"v3"}, ids)
}
