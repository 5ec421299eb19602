package out

import "context"

// InlineDocument is a binary document passed to the model alongside the
// prompt, for providers that accept image or PDF input directly.
type InlineDocument struct {
	Bytes    []byte
	MimeType string
	Filename string
}

// InvoiceModel is the outbound port for the structured-extraction model.
// Generate returns the raw model text; callers extract the JSON object
// themselves. A nil doc means text-only extraction.
type InvoiceModel interface {
	Generate(ctx context.Context, prompt string, doc *InlineDocument) (string, error)
}

// InvoiceModelFactory yields the model client on first use. Constructing
// the client may touch credentials, so it must not run at startup; the
// factory is called lazily and its result memoized by the caller.
type InvoiceModelFactory func() (InvoiceModel, error)
