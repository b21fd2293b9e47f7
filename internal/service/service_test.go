package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"compostbot/internal/chunker"
	"compostbot/internal/domain"
	"compostbot/internal/objstore"
	"compostbot/internal/store/sqlite"
)

// fakeEmbedder produces deterministic vectors derived from the text.
type fakeEmbedder struct {
	dim  int
	fail bool
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if f.fail {
		return nil, errors.New("embedding provider unavailable")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, f.dim)
		for j, r := range text {
			v[j%f.dim] += float64(r)
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

// fakeChat records every conversation it is asked to complete.
type fakeChat struct {
	reply string
	fail  bool
	calls [][]domain.ChatMessage
}

func (f *fakeChat) Complete(_ context.Context, messages []domain.ChatMessage) (string, error) {
	f.calls = append(f.calls, messages)
	if f.fail {
		return "", errors.New("chat provider unavailable")
	}
	return f.reply, nil
}

// fakeExtractor returns the input bytes as text.
type fakeExtractor struct{ fail bool }

func (f *fakeExtractor) Extract(data []byte) (string, error) {
	if f.fail {
		return "", domain.ErrExtraction
	}
	return string(data), nil
}

type fixture struct {
	store     *sqlite.Store
	documents domain.DocumentStore
	ledger    domain.VectorLedger
	objects   *objstore.FSBucket
	chunker   domain.Chunker
	embedder  *fakeEmbedder
	artifacts ArtifactConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	objects, err := objstore.NewFSBucket(t.TempDir())
	require.NoError(t, err)

	return &fixture{
		store:     store,
		documents: store.Documents(),
		ledger:    store.Ledger(),
		objects:   objects,
		chunker:   chunker.NewWindowChunker(512, 32),
		embedder:  &fakeEmbedder{dim: 8},
		artifacts: ArtifactConfig{Prefix: "indices/", Name: "faiss_index"},
	}
}

func (f *fixture) newSync() *Sync {
	return NewSync(f.documents, f.ledger, f.objects, f.chunker, f.embedder, f.artifacts)
}
