package service

import (
	"context"
	"errors"
	"fmt"

	"compostbot/internal/domain"
	"compostbot/internal/index"
	"compostbot/internal/objstore"
)

// ArtifactConfig names the persisted index artifact pair. The same base
// name is used for every save and load.
type ArtifactConfig struct {
	Prefix string
	Name   string
}

// loadIndex restores the persisted index from the object store. A fully
// absent pair yields a fresh empty index; a half-missing or corrupted pair
// is an ErrIndexLoad, never a silently partial index.
func loadIndex(ctx context.Context, objects domain.ObjectStore, cfg ArtifactConfig, dimension int) (*index.Flat, error) {
	indexKey := objstore.IndexKey(cfg.Prefix, cfg.Name)
	sidecarKey := objstore.SidecarKey(cfg.Prefix, cfg.Name)

	indexData, indexErr := objects.Get(ctx, indexKey)
	sidecarData, sidecarErr := objects.Get(ctx, sidecarKey)

	switch {
	case errors.Is(indexErr, domain.ErrNotFound) && errors.Is(sidecarErr, domain.ErrNotFound):
		return index.New(dimension), nil
	case indexErr != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexLoad, indexErr)
	case sidecarErr != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexLoad, sidecarErr)
	}
	return index.Deserialize(indexData, sidecarData)
}

// saveIndex uploads both artifacts as a pair.
func saveIndex(ctx context.Context, objects domain.ObjectStore, cfg ArtifactConfig, idx *index.Flat) error {
	indexData, sidecarData, err := idx.Serialize()
	if err != nil {
		return fmt.Errorf("serializing index: %w", err)
	}
	if err := objects.Put(ctx, objstore.IndexKey(cfg.Prefix, cfg.Name), indexData); err != nil {
		return fmt.Errorf("uploading index artifact: %w", err)
	}
	if err := objects.Put(ctx, objstore.SidecarKey(cfg.Prefix, cfg.Name), sidecarData); err != nil {
		return fmt.Errorf("uploading sidecar artifact: %w", err)
	}
	return nil
}
