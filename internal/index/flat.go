package index

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"compostbot/internal/domain"
)

// Flat is an in-memory exact nearest-neighbor index using brute-force
// cosine similarity. Entries carry stable string ids so callers can delete
// a document's vectors before re-inserting fresh ones.
type Flat struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   [][]float64
	records   map[string]domain.Chunk
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) *Flat {
	return &Flat{
		dimension: dimension,
		records:   make(map[string]domain.Chunk),
	}
}

// Dimension returns the vector dimension the index was created with.
func (f *Flat) Dimension() int { return f.dimension }

// Len returns the number of entries currently in the index.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

// Insert appends embedded chunks and returns their assigned vector ids.
func (f *Flat) Insert(chunks []domain.Chunk, vectors [][]float64) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, errors.New("chunks and vectors length mismatch")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range vectors {
		if len(v) != f.dimension {
			return nil, fmt.Errorf("vector dimension %d does not match index dimension %d", len(v), f.dimension)
		}
	}
	ids := make([]string, len(chunks))
	for i := range chunks {
		id := uuid.NewString()
		ids[i] = id
		f.ids = append(f.ids, id)
		f.vectors = append(f.vectors, vectors[i])
		f.records[id] = chunks[i]
	}
	return ids, nil
}

// Delete removes the given entries. Ids not present are ignored.
func (f *Flat) Delete(vectorIDs []string) {
	if len(vectorIDs) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(vectorIDs))
	for _, id := range vectorIDs {
		drop[id] = struct{}{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	keptIDs := f.ids[:0]
	keptVectors := f.vectors[:0]
	for i, id := range f.ids {
		if _, ok := drop[id]; ok {
			delete(f.records, id)
			continue
		}
		keptIDs = append(keptIDs, id)
		keptVectors = append(keptVectors, f.vectors[i])
	}
	f.ids = keptIDs
	f.vectors = keptVectors
}

// Search returns the topK entries nearest to the query vector by cosine
// similarity. A topK larger than the index returns everything, ranked.
func (f *Flat) Search(vector []float64, topK int) []domain.SearchResult {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if topK <= 0 {
		topK = 4
	}
	results := make([]domain.SearchResult, 0, len(f.ids))
	for i, id := range f.ids {
		results = append(results, domain.SearchResult{
			Chunk: f.records[id],
			Score: cosine(vector, f.vectors[i]),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// indexBlob is the serialized index structure, the ".faiss" half of the
// artifact pair.
type indexBlob struct {
	Dimension int
	IDs       []string
	Vectors   [][]float64
}

// sidecarBlob maps vector ids to their stored records, the ".pkl" half.
type sidecarBlob struct {
	Records map[string]domain.Chunk
}

// Serialize snapshots the index into its two companion artifacts. The pair
// must always be stored and loaded together.
func (f *Flat) Serialize() (indexData, sidecarData []byte, err error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var ib bytes.Buffer
	if err := gob.NewEncoder(&ib).Encode(indexBlob{
		Dimension: f.dimension,
		IDs:       f.ids,
		Vectors:   f.vectors,
	}); err != nil {
		return nil, nil, fmt.Errorf("encoding index blob: %w", err)
	}

	var sb bytes.Buffer
	if err := gob.NewEncoder(&sb).Encode(sidecarBlob{Records: f.records}); err != nil {
		return nil, nil, fmt.Errorf("encoding sidecar blob: %w", err)
	}
	return ib.Bytes(), sb.Bytes(), nil
}

// Deserialize restores an index from an artifact pair. It fails with
// domain.ErrIndexLoad when either blob is corrupted or the pair does not
// describe the same snapshot.
func Deserialize(indexData, sidecarData []byte) (*Flat, error) {
	var ib indexBlob
	if err := gob.NewDecoder(bytes.NewReader(indexData)).Decode(&ib); err != nil {
		return nil, fmt.Errorf("%w: index blob: %v", domain.ErrIndexLoad, err)
	}
	var sb sidecarBlob
	if err := gob.NewDecoder(bytes.NewReader(sidecarData)).Decode(&sb); err != nil {
		return nil, fmt.Errorf("%w: sidecar blob: %v", domain.ErrIndexLoad, err)
	}
	if len(ib.IDs) != len(ib.Vectors) {
		return nil, fmt.Errorf("%w: index blob ids/vectors length mismatch", domain.ErrIndexLoad)
	}
	if len(ib.IDs) != len(sb.Records) {
		return nil, fmt.Errorf("%w: sidecar does not match index blob", domain.ErrIndexLoad)
	}
	for _, id := range ib.IDs {
		if _, ok := sb.Records[id]; !ok {
			return nil, fmt.Errorf("%w: vector id %s missing from sidecar", domain.ErrIndexLoad, id)
		}
	}
	f := New(ib.Dimension)
	f.ids = ib.IDs
	f.vectors = ib.Vectors
	if sb.Records != nil {
		f.records = sb.Records
	}
	return f, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
