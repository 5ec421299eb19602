package in

import (
	"context"

	"spendscan/core/domain"
)

// ExtractRequest describes one pipeline run.
type ExtractRequest struct {
	// LookbackDays bounds the search window. Zero means the configured
	// default.
	LookbackDays int

	// Kind narrows the run to one record kind. Empty means a single
	// broad attachment sweep.
	Kind domain.RecordKind

	// MaxResults caps ids per query. Zero means the configured default.
	MaxResults int64

	// ParseDocuments enables the invoice-parsing stage for resolved
	// document attachments.
	ParseDocuments bool
}

// ExtractionUseCase is the inbound port driving the whole pipeline.
type ExtractionUseCase interface {
	// Extract runs search, fetch, parse, classify and (optionally)
	// invoice parsing over the requested window. Partial results are
	// returned even when the run is cut short.
	Extract(ctx context.Context, req ExtractRequest) (*domain.ExtractionResult, error)
}

// ParseUseCase exposes the parsing tiers directly, without a mailbox.
type ParseUseCase interface {
	// ParseText runs the two-tier invoice parser over raw text.
	ParseText(ctx context.Context, text, filename string) (*domain.ParsedInvoice, error)

	// ParseDocument runs the parser over an uploaded document.
	ParseDocument(ctx context.Context, data []byte, filename, mimeType string) (*domain.ParsedInvoice, error)

	// AnalyzeWarranty derives a warranty report from document text.
	AnalyzeWarranty(ctx context.Context, text string, purchaseDate string) (*domain.WarrantyAnalysis, error)
}
