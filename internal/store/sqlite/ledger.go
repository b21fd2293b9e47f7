package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"compostbot/internal/domain"
)

// Ledger returns a VectorLedger backed by this store.
func (s *Store) Ledger() domain.VectorLedger {
	return &vectorLedger{store: s}
}

type vectorLedger struct {
	store *Store
}

var _ domain.VectorLedger = (*vectorLedger)(nil)

// VectorIDs returns the ids currently recorded for a document. A document
// without a ledger entry yields an empty set, not an error.
func (l *vectorLedger) VectorIDs(ctx context.Context, documentID string) ([]string, error) {
	row := l.store.db.QueryRowContext(ctx, `
		SELECT vector_ids FROM document_vectors WHERE document_id = ?
	`, documentID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading ledger entry for %s: %w", documentID, err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decoding ledger entry for %s: %w", documentID, err)
	}
	return ids, nil
}

// Put overwrites the ledger entry for a document with its latest id set.
func (l *vectorLedger) Put(ctx context.Context, documentID string, vectorIDs []string) error {
	raw, err := json.Marshal(vectorIDs)
	if err != nil {
		return fmt.Errorf("encoding ledger entry for %s: %w", documentID, err)
	}
	_, err = l.store.db.ExecContext(ctx, `
		INSERT INTO document_vectors (document_id, vector_ids)
		VALUES (?, ?)
		ON CONFLICT(document_id) DO UPDATE SET vector_ids = excluded.vector_ids
	`, documentID, string(raw))
	if err != nil {
		return fmt.Errorf("saving ledger entry for %s: %w", documentID, err)
	}
	return nil
}
