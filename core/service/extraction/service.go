package extraction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendscan/core/domain"
	"spendscan/core/port/in"
	"spendscan/core/port/out"
	"spendscan/core/service/amount"
	"spendscan/core/service/classify"
	"spendscan/core/service/content"
	"spendscan/core/service/document"
	"spendscan/core/service/invoice"
	"spendscan/core/service/query"
	"spendscan/core/service/retrieval"
	"spendscan/pkg/logger"
)

const (
	defaultLookbackDays = 30
	defaultMaxResults   = 50

	cacheTTL = 24 * time.Hour
)

// Service drives the full pipeline: query, retrieve, parse, classify,
// resolve documents, parse invoices.
type Service struct {
	builder    *query.Builder
	retriever  *retrieval.Retriever
	classifier *classify.Classifier
	parser     *invoice.Parser
	mailbox    out.MailboxPort

	// Optional collaborators. nil disables the concern.
	records  out.RecordRepository
	invoices out.InvoiceRepository
	cache    out.ResultCache
	archive  out.DocumentArchive

	log *logger.Logger
}

// Deps bundles the service wiring.
type Deps struct {
	Builder    *query.Builder
	Retriever  *retrieval.Retriever
	Classifier *classify.Classifier
	Parser     *invoice.Parser
	Mailbox    out.MailboxPort
	Records    out.RecordRepository
	Invoices   out.InvoiceRepository
	Cache      out.ResultCache
	Archive    out.DocumentArchive
}

func NewService(d Deps) *Service {
	if d.Builder == nil {
		d.Builder = query.NewBuilder(nil)
	}
	if d.Classifier == nil {
		d.Classifier = classify.NewClassifier()
	}
	return &Service{
		builder:    d.Builder,
		retriever:  d.Retriever,
		classifier: d.Classifier,
		parser:     d.Parser,
		mailbox:    d.Mailbox,
		records:    d.Records,
		invoices:   d.Invoices,
		cache:      d.Cache,
		archive:    d.Archive,
		log:        logger.Default().WithField("component", "extraction"),
	}
}

var _ in.ExtractionUseCase = (*Service)(nil)

// Extract runs one pipeline pass. Partial results survive any per-item
// failure; only a provider auth failure aborts, and even then whatever
// was already collected is returned.
func (s *Service) Extract(ctx context.Context, req in.ExtractRequest) (*domain.ExtractionResult, error) {
	if req.LookbackDays <= 0 {
		req.LookbackDays = defaultLookbackDays
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}

	window := domain.NewSearchWindow(req.LookbackDays, req.Kind)
	queries := s.builder.Build(window)

	started := time.Now()
	result := &domain.ExtractionResult{}

	ids, err := s.retriever.Collect(ctx, queries, req.MaxResults)
	if err != nil {
		return result, err
	}

	messages, fetchErr := s.retriever.FetchAll(ctx, ids)
	for _, msg := range messages {
		result.Scanned++
		s.processMessage(ctx, msg, req, result)
	}

	s.log.WithDuration(time.Since(started)).
		Info("extraction finished: %d scanned, %d records, %d skipped",
			result.Scanned, len(result.Records), result.Skipped)

	// fetchErr is only ever the fatal auth class; per-message failures
	// were swallowed inside the retriever.
	return result, fetchErr
}

func (s *Service) processMessage(ctx context.Context, msg *domain.RawMessage, req in.ExtractRequest, result *domain.ExtractionResult) {
	parsed, err := content.Parse(msg)
	if err != nil {
		s.log.WithError(err).WithMessageID(msg.ID).Warn("content parse failed, dropping")
		result.Skipped++
		return
	}

	if reason, skip := classify.ShouldSkip(parsed.Subject, parsed.Sender, parsed.PlainText); skip {
		s.log.WithMessageID(msg.ID).Debug("message skipped: %s", reason)
		result.Skipped++
		return
	}

	kind := s.classifier.Classify(parsed.Subject, parsed.PlainText, parsed.Sender)
	if kind == domain.KindOther {
		result.Skipped++
		return
	}

	record := s.buildRecord(parsed, kind)
	result.Records = append(result.Records, record)
	if s.records != nil {
		if err := s.records.SaveRecord(ctx, &record); err != nil {
			s.log.WithError(err).WithMessageID(msg.ID).Warn("record save failed")
		}
	}

	docs := document.Resolve(parsed)
	result.Documents = append(result.Documents, docs...)

	if req.ParseDocuments && s.parser != nil {
		for _, doc := range docs {
			if inv := s.parseDocument(ctx, parsed, doc); inv != nil {
				result.Invoices = append(result.Invoices, *inv)
			}
		}
	}
}

func (s *Service) buildRecord(parsed *domain.ParsedContent, kind domain.RecordKind) domain.ClassifiedRecord {
	// The none sentinel renders as a zero amount on the record.
	var amt float64
	if extracted, ok := amount.Extract(parsed.Subject + " " + parsed.PlainText); ok {
		amt = extracted.Value
	}
	return domain.ClassifiedRecord{
		ID:              uuid.New(),
		SourceMessageID: parsed.MessageID,
		Kind:            kind,
		Vendor:          parsed.Sender,
		Amount:          amt,
		Date:            parsed.Date,
		Subject:         parsed.Subject,
		Category:        s.classifier.Category(parsed.Subject, parsed.Sender),
		CreatedAt:       time.Now(),
	}
}

// parseDocument runs the two-tier parser over one attachment, behind
// the processed-message cache when one is wired.
func (s *Service) parseDocument(ctx context.Context, parsed *domain.ParsedContent, doc domain.DocumentDescriptor) *domain.ParsedInvoice {
	cacheKey := doc.MessageID + "/" + doc.Attachment.AttachmentID
	if s.cache != nil {
		if hit, err := s.cache.GetResult(ctx, cacheKey); err == nil && hit != nil {
			return hit
		}
	}

	data, err := s.mailbox.GetAttachment(ctx, doc.MessageID, doc.Attachment.AttachmentID)
	if err != nil {
		s.log.WithError(err).WithMessageID(doc.MessageID).Warn("attachment fetch failed, dropping document")
		return nil
	}

	inv := s.parser.ParseDocument(ctx, data, doc.Attachment.Filename, doc.Attachment.MimeType, parsed.Sender)
	inv.SourceMessageID = doc.MessageID
	inv.AttachmentID = doc.Attachment.AttachmentID

	if s.invoices != nil {
		if _, err := s.invoices.SaveInvoice(ctx, inv); err != nil {
			s.log.WithError(err).WithMessageID(doc.MessageID).Warn("invoice save failed")
		}
	}

	// Archive the full text for textual documents; API responses carry
	// only the truncated excerpt on the invoice.
	archived := inv.RawText
	if strings.HasPrefix(doc.Attachment.MimeType, "text/") {
		archived = string(data)
	}
	if s.archive != nil && archived != "" {
		if err := s.archive.SaveText(ctx, doc.MessageID, doc.Attachment.AttachmentID, archived); err != nil {
			s.log.WithError(err).WithMessageID(doc.MessageID).Warn("text archive failed")
		}
	}
	if s.cache != nil {
		if err := s.cache.SetResult(ctx, cacheKey, inv, cacheTTL); err != nil {
			s.log.WithError(err).WithMessageID(doc.MessageID).Warn("result cache write failed")
		}
	}
	return inv
}
