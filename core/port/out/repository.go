package out

import (
	"context"

	"github.com/google/uuid"

	"spendscan/core/domain"
)

// RecordRepository persists classified records. SaveRecord is an upsert
// keyed on the source message id so re-running a window never duplicates.
type RecordRepository interface {
	SaveRecord(ctx context.Context, rec *domain.ClassifiedRecord) error
	GetRecord(ctx context.Context, id uuid.UUID) (*domain.ClassifiedRecord, error)
	ListRecords(ctx context.Context, kind domain.RecordKind, limit, offset int) ([]*domain.ClassifiedRecord, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

// InvoiceRepository persists parsed invoices alongside their records.
type InvoiceRepository interface {
	SaveInvoice(ctx context.Context, inv *domain.ParsedInvoice) (uuid.UUID, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*domain.ParsedInvoice, error)
}

// DocumentArchive stores the full extracted text of parsed documents.
// API responses carry only a truncated excerpt; the archive keeps the
// rest for later re-parsing, expiring entries after a retention window.
type DocumentArchive interface {
	SaveText(ctx context.Context, messageID, attachmentID, text string) error
	GetText(ctx context.Context, messageID, attachmentID string) (string, error)
	DeleteText(ctx context.Context, messageID, attachmentID string) error
}
