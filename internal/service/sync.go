package service

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"compostbot/internal/domain"
)

// SyncReport summarizes one sync batch.
type SyncReport struct {
	DocumentsProcessed int `json:"documents_processed"`
	VectorsStored      int `json:"vectors_stored"`
}

// Sync reconciles pending documents into the persisted vector index:
// fetch -> chunk -> embed -> index -> persist -> reconcile. The batch is
// atomic from the document-status perspective: a failure at any stage
// leaves every status and ledger entry untouched.
type Sync struct {
	documents domain.DocumentStore
	ledger    domain.VectorLedger
	objects   domain.ObjectStore
	chunker   domain.Chunker
	embedder  domain.Embedder
	artifacts ArtifactConfig
}

// NewSync creates the sync pipeline.
func NewSync(documents domain.DocumentStore, ledger domain.VectorLedger, objects domain.ObjectStore,
	chunker domain.Chunker, embedder domain.Embedder, artifacts ArtifactConfig) *Sync {
	return &Sync{
		documents: documents,
		ledger:    ledger,
		objects:   objects,
		chunker:   chunker,
		embedder:  embedder,
		artifacts: artifacts,
	}
}

// Run processes every pending document. An empty batch is a no-op result,
// not an error.
func (s *Sync) Run(ctx context.Context) (SyncReport, error) {
	pending, err := s.documents.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return SyncReport{}, fmt.Errorf("fetching pending documents: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("Sync: no pending documents")
		return SyncReport{}, nil
	}
	logger.Infof("Sync: fetched %d pending documents", len(pending))

	// Chunking
	perDoc := make([][]domain.Chunk, len(pending))
	var allChunks []domain.Chunk
	for i, doc := range pending {
		perDoc[i] = s.chunker.Chunk(doc)
		allChunks = append(allChunks, perDoc[i]...)
	}
	logger.Infof("Sync: produced %d chunks", len(allChunks))

	// Embedding. A provider failure for any chunk aborts the whole batch;
	// a partial index would desync the ledger.
	texts := make([]string, len(allChunks))
	for i, ch := range allChunks {
		texts[i] = ch.Content
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return SyncReport{}, fmt.Errorf("embedding batch: %w", err)
	}

	// Indexing. Replace, don't append: a document that was indexed before
	// has its stale vectors deleted before its fresh ones go in.
	idx, err := loadIndex(ctx, s.objects, s.artifacts, s.embedder.Dimension())
	if err != nil {
		return SyncReport{}, err
	}
	newIDs := make(map[string][]string, len(pending))
	stored := 0
	offset := 0
	for i, doc := range pending {
		stale, err := s.ledger.VectorIDs(ctx, doc.ID)
		if err != nil {
			return SyncReport{}, err
		}
		idx.Delete(stale)

		n := len(perDoc[i])
		ids, err := idx.Insert(perDoc[i], vectors[offset:offset+n])
		if err != nil {
			return SyncReport{}, fmt.Errorf("indexing document %s: %w", doc.ID, err)
		}
		newIDs[doc.ID] = ids
		stored += len(ids)
		offset += n
	}

	// Persisting. Ledger updates happen strictly after a successful upload
	// so the artifacts on store always match a ledger-consistent state.
	if err := saveIndex(ctx, s.objects, s.artifacts, idx); err != nil {
		return SyncReport{}, err
	}

	// Reconciling
	for _, doc := range pending {
		if err := s.ledger.Put(ctx, doc.ID, newIDs[doc.ID]); err != nil {
			return SyncReport{}, err
		}
		if err := s.documents.SetStatus(ctx, doc.ID, domain.StatusProcessed); err != nil {
			return SyncReport{}, err
		}
	}

	logger.Infof("Sync: processed %d documents, stored %d vectors", len(pending), stored)
	return SyncReport{DocumentsProcessed: len(pending), VectorsStored: stored}, nil
}
