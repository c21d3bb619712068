package port

import "context"

// ExtractInput carries an uploaded document for field extraction.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// InvoiceExtractor abstracts the vision/LLM extraction service. The returned
// text is the model's free-form response; callers are responsible for
// locating and parsing any structured payload inside it.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (string, error)
}
