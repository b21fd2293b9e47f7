package objstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"compostbot/internal/domain"
)

// FSBucket is an object store rooted at a local directory. Object keys map
// to file paths under the root.
type FSBucket struct {
	root string
}

// NewFSBucket creates the bucket directory if needed and returns the store.
func NewFSBucket(root string) (*FSBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating bucket directory: %w", err)
	}
	return &FSBucket{root: root}, nil
}

func (b *FSBucket) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(b.root, clean), nil
}

// Get returns the object's bytes, or domain.ErrNotFound.
func (b *FSBucket) Get(_ context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return data, nil
}

// Put stores the object, creating parent directories as needed.
func (b *FSBucket) Put(_ context.Context, key string, data []byte) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing object %s: %w", key, err)
	}
	return nil
}

var _ domain.ObjectStore = (*FSBucket)(nil)

// IndexKey returns the object key of the serialized index structure.
func IndexKey(prefix, name string) string {
	return prefix + name + ".faiss"
}

// SidecarKey returns the object key of the id/record sidecar. The pair must
// always be written and read together.
func SidecarKey(prefix, name string) string {
	return prefix + name + ".pkl"
}
