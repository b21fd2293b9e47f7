package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"compostbot/internal/domain"
)

// PDF extracts plain text from PDF bytes, one pass over all pages in
// page order.
type PDF struct{}

// NewPDF creates a PDF text extractor.
func NewPDF() *PDF { return &PDF{} }

// Extract returns the concatenated text of every page. It reports
// domain.ErrExtraction when the input is not a parseable PDF.
func (e *PDF) Extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", domain.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrExtraction, i, err)
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
