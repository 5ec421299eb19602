package extraction

import (
	"context"
	"time"

	"spendscan/core/domain"
	"spendscan/core/port/in"
	"spendscan/core/service/invoice"
)

// ParseService exposes the parsing tiers directly, for callers that
// already hold the document and do not need the mailbox.
type ParseService struct {
	parser *invoice.Parser
}

func NewParseService(parser *invoice.Parser) *ParseService {
	return &ParseService{parser: parser}
}

var _ in.ParseUseCase = (*ParseService)(nil)

func (s *ParseService) ParseText(ctx context.Context, text, filename string) (*domain.ParsedInvoice, error) {
	return s.parser.ParseText(ctx, text, filename, ""), nil
}

func (s *ParseService) ParseDocument(ctx context.Context, data []byte, filename, mimeType string) (*domain.ParsedInvoice, error) {
	return s.parser.ParseDocument(ctx, data, filename, mimeType, ""), nil
}

func (s *ParseService) AnalyzeWarranty(_ context.Context, text string, purchaseDate string) (*domain.WarrantyAnalysis, error) {
	return invoice.AnalyzeWarranty(text, purchaseDate, time.Now()), nil
}
