package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"compostbot/internal/domain"
)

func TestIngest_StoresPendingDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.objects.Put(ctx, "uploads/composting-guide.pdf", []byte("Composting is...")))

	ing := NewIngest(f.objects, f.documents, &fakeExtractor{})
	doc, err := ing.HandleObjectCreated(ctx, "uploads/composting-guide.pdf")
	require.NoError(t, err)
	require.Equal(t, "uploads/composting-guide.pdf", doc.ID)
	require.Equal(t, "composting-guide", doc.Title)
	require.Equal(t, domain.StatusPending, doc.Status)

	stored, err := f.documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "Composting is...", stored.Text)
	require.Equal(t, domain.StatusPending, stored.Status)
}

func TestIngest_MissingObject(t *testing.T) {
	f := newFixture(t)

	ing := NewIngest(f.objects, f.documents, &fakeExtractor{})
	_, err := ing.HandleObjectCreated(context.Background(), "uploads/nope.pdf")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIngest_ExtractionFailureLeavesDocumentUnmodified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An earlier, good version of the document exists.
	require.NoError(t, f.documents.Put(ctx, domain.Document{
		ID: "uploads/doc.pdf", Title: "doc", Text: "old text", Status: domain.StatusProcessed,
	}))
	require.NoError(t, f.objects.Put(ctx, "uploads/doc.pdf", []byte("broken bytes")))

	ing := NewIngest(f.objects, f.documents, &fakeExtractor{fail: true})
	_, err := ing.HandleObjectCreated(ctx, "uploads/doc.pdf")
	require.True(t, errors.Is(err, domain.ErrExtraction))

	stored, err := f.documents.Get(ctx, "uploads/doc.pdf")
	require.NoError(t, err)
	require.Equal(t, "old text", stored.Text)
	require.Equal(t, domain.StatusProcessed, stored.Status)
}

func TestIngest_ReuploadResetsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.objects.Put(ctx, "uploads/doc.pdf", []byte("version one")))
	ing := NewIngest(f.objects, f.documents, &fakeExtractor{})
	_, err := ing.HandleObjectCreated(ctx, "uploads/doc.pdf")
	require.NoError(t, err)
	require.NoError(t, f.documents.SetStatus(ctx, "uploads/doc.pdf", domain.StatusProcessed))

	require.NoError(t, f.objects.Put(ctx, "uploads/doc.pdf", []byte("version two")))
	_, err = ing.HandleObjectCreated(ctx, "uploads/doc.pdf")
	require.NoError(t, err)

	stored, err := f.documents.Get(ctx, "uploads/doc.pdf")
	require.NoError(t, err)
	require.Equal(t, "version two", stored.Text)
	require.Equal(t, domain.StatusPending, stored.Status)
}
