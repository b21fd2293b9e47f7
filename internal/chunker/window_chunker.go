package chunker

import "compostbot/internal/domain"

// WindowChunker splits document text into fixed-size windows with overlap.
// Sizes are counted in runes so multi-byte text never splits mid-character.
type WindowChunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewWindowChunker creates a chunker with the given window size and overlap.
func NewWindowChunker(chunkSize, chunkOverlap int) *WindowChunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	return &WindowChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk returns the ordered window sequence for the document's text.
// Consecutive chunks share exactly the configured overlap; the final chunk
// may be shorter. Empty text yields no chunks.
func (c *WindowChunker) Chunk(doc domain.Document) []domain.Chunk {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Content:    string(runes[start:end]),
			DocumentID: doc.ID,
			Title:      doc.Title,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
