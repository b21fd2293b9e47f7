package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is the SQLite-backed metadata storage. It holds the documents table
// and its sibling vector-id ledger table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "metadata.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			document_id TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			text        TEXT NOT NULL,
			status      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
		CREATE TABLE IF NOT EXISTS document_vectors (
			document_id TEXT PRIMARY KEY,
			vector_ids  TEXT NOT NULL
		);
	`)
	return err
}
