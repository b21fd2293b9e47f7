package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/kart-io/logger"

	"compostbot/internal/domain"
)

// Ingest handles object-created notifications: it pulls the uploaded PDF,
// extracts its text and stores the document as pending for the next sync.
type Ingest struct {
	objects   domain.ObjectStore
	documents domain.DocumentStore
	extractor domain.Extractor
}

// NewIngest creates the ingestion pipeline.
func NewIngest(objects domain.ObjectStore, documents domain.DocumentStore, extractor domain.Extractor) *Ingest {
	return &Ingest{objects: objects, documents: documents, extractor: extractor}
}

// HandleObjectCreated ingests the object at key. Re-uploading an existing
// key overwrites the document and marks it pending again, so the next sync
// re-chunks and re-embeds it.
func (s *Ingest) HandleObjectCreated(ctx context.Context, key string) (domain.Document, error) {
	data, err := s.objects.Get(ctx, key)
	if err != nil {
		return domain.Document{}, fmt.Errorf("fetching uploaded object: %w", err)
	}

	text, err := s.extractor.Extract(data)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		ID:     key,
		Title:  titleFromKey(key),
		Text:   text,
		Status: domain.StatusPending,
	}
	if err := s.documents.Put(ctx, doc); err != nil {
		return domain.Document{}, err
	}
	logger.Infof("Ingested %s (%d chars extracted)", key, len(text))
	return doc, nil
}

// titleFromKey derives a document title from the object key's file name.
func titleFromKey(key string) string {
	base := path.Base(key)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
