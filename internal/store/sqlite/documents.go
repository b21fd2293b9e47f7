package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"compostbot/internal/domain"
)

// Documents returns a DocumentStore backed by this store.
func (s *Store) Documents() domain.DocumentStore {
	return &documentStore{store: s}
}

type documentStore struct {
	store *Store
}

var _ domain.DocumentStore = (*documentStore)(nil)

// Put creates or overwrites a document. Re-ingesting a source replaces its
// text and resets whatever status the caller set on the document.
func (d *documentStore) Put(ctx context.Context, doc domain.Document) error {
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, title, text, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			title  = excluded.title,
			text   = excluded.text,
			status = excluded.status
	`, doc.ID, doc.Title, doc.Text, string(doc.Status))
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	return nil
}

func (d *documentStore) Get(ctx context.Context, id string) (domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx, `
		SELECT document_id, title, text, status FROM documents WHERE document_id = ?
	`, id)

	var doc domain.Document
	var status string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Text, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return domain.Document{}, fmt.Errorf("loading document %s: %w", id, err)
	}
	doc.Status = domain.DocumentStatus(status)
	return doc, nil
}

func (d *documentStore) ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.Document, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT document_id, title, text, status FROM documents WHERE status = ?
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("querying documents by status: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		var st string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Text, &st); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Status = domain.DocumentStatus(st)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func (d *documentStore) SetStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	res, err := d.store.db.ExecContext(ctx, `
		UPDATE documents SET status = ? WHERE document_id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating status of %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
