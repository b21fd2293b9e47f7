package domain

import "errors"

var (
	// ErrNoQuestion means the query request carried no question text.
	ErrNoQuestion = errors.New("no question was provided")

	// ErrNotFound means a requested document or object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExtraction means the uploaded source could not be parsed as a PDF.
	ErrExtraction = errors.New("failed to extract text")

	// ErrIndexLoad means the persisted index artifact pair is missing,
	// corrupted, or mismatched. Callers must not proceed with a partially
	// loaded index.
	ErrIndexLoad = errors.New("failed to load vector index")
)
