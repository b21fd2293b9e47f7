package domain

import "context"

// DocumentStatus tracks where a document is in the indexing lifecycle.
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusProcessed DocumentStatus = "processed"
)

// Document is one ingested source file with its extracted text.
type Document struct {
	ID     string
	Title  string
	Text   string
	Status DocumentStatus
}

// Chunk is a bounded window of a document's text, the unit that gets
// embedded and indexed.
type Chunk struct {
	Content    string
	DocumentID string
	Title      string
}

// SearchResult is a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// ChatMessage is one message exchanged with the chat model.
type ChatMessage struct {
	Role    string // "system", "user" or "assistant"
	Content string
}

// ChatTurn is one completed question/answer pair of a session.
type ChatTurn struct {
	Question string
	Answer   string
}

// Chunker splits a document's text into windows suitable for embedding.
type Chunker interface {
	Chunk(doc Document) []Chunk
}

// Extractor turns raw source file bytes into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Embedder converts text into fixed-length numeric vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// ChatModel produces a completion for a conversation.
type ChatModel interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// DocumentStore holds documents and their processing status.
type DocumentStore interface {
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	ListByStatus(ctx context.Context, status DocumentStatus) ([]Document, error)
	SetStatus(ctx context.Context, id string, status DocumentStatus) error
}

// VectorLedger records which vector ids currently belong to a document.
type VectorLedger interface {
	VectorIDs(ctx context.Context, documentID string) ([]string, error)
	Put(ctx context.Context, documentID string, vectorIDs []string) error
}

// ObjectStore is blob storage for uploaded sources and index artifacts.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// SessionStore keeps per-session conversation history.
type SessionStore interface {
	History(sessionID string) []ChatTurn
	Append(sessionID string, turn ChatTurn)
}
