package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"spendscan/core/domain"
	"spendscan/core/port/out"
)

// =============================================================================
// Invoice Adapter (PostgreSQL)
// =============================================================================

// InvoiceAdapter implements out.InvoiceRepository using PostgreSQL.
// Line items are stored as a JSONB column; the flat money fields get
// their own columns so reports can aggregate without unpacking JSON.
type InvoiceAdapter struct {
	db *sqlx.DB
}

// NewInvoiceAdapter creates a new InvoiceAdapter.
func NewInvoiceAdapter(db *sqlx.DB) *InvoiceAdapter {
	return &InvoiceAdapter{db: db}
}

// =============================================================================
// Database Row Mapping
// =============================================================================

type invoiceRow struct {
	ID              uuid.UUID      `db:"id"`
	SourceMessageID sql.NullString `db:"source_message_id"`
	AttachmentID    sql.NullString `db:"attachment_id"`
	Filename        sql.NullString `db:"filename"`
	Vendor          string         `db:"vendor"`
	InvoiceNumber   sql.NullString `db:"invoice_number"`
	OrderNumber     sql.NullString `db:"order_number"`
	InvoiceDate     sql.NullString `db:"invoice_date"`
	Total           float64        `db:"total"`
	Subtotal        float64        `db:"subtotal"`
	Taxes           float64        `db:"taxes"`
	Shipping        float64        `db:"shipping"`
	Discount        float64        `db:"discount"`
	Currency        string         `db:"currency"`
	Items           []byte         `db:"items"`
	PaymentMethod   sql.NullString `db:"payment_method"`
	Notes           sql.NullString `db:"notes"`
	WarrantyDays    int            `db:"warranty_period_days"`
	WarrantyEndDate sql.NullString `db:"warranty_end_date"`
	Confidence      int            `db:"confidence"`
	Valid           bool           `db:"valid"`
	Category        sql.NullString `db:"category"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r *invoiceRow) toEntity() (*domain.ParsedInvoice, error) {
	inv := &domain.ParsedInvoice{
		SourceMessageID:    r.SourceMessageID.String,
		AttachmentID:       r.AttachmentID.String,
		Filename:           r.Filename.String,
		Vendor:             r.Vendor,
		InvoiceNumber:      r.InvoiceNumber.String,
		OrderNumber:        r.OrderNumber.String,
		Date:               r.InvoiceDate.String,
		Total:              r.Total,
		Subtotal:           r.Subtotal,
		Taxes:              r.Taxes,
		Shipping:           r.Shipping,
		Discount:           r.Discount,
		Currency:           r.Currency,
		PaymentMethod:      r.PaymentMethod.String,
		Notes:              r.Notes.String,
		WarrantyPeriodDays: r.WarrantyDays,
		WarrantyEndDate:    r.WarrantyEndDate.String,
		Confidence:         r.Confidence,
		Valid:              r.Valid,
		Category:           domain.SpendCategory(r.Category.String),
	}
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &inv.Items); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// =============================================================================
// Operations
// =============================================================================

// SaveInvoice inserts a parsed invoice and returns its generated id.
func (a *InvoiceAdapter) SaveInvoice(ctx context.Context, inv *domain.ParsedInvoice) (uuid.UUID, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return uuid.Nil, err
	}

	query := `
		INSERT INTO parsed_invoices (
			id, source_message_id, attachment_id, filename, vendor,
			invoice_number, order_number, invoice_date,
			total, subtotal, taxes, shipping, discount, currency, items,
			payment_method, notes, warranty_period_days, warranty_end_date,
			confidence, valid, category
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id`

	id := uuid.New()
	err = a.db.QueryRowContext(ctx, query,
		id,
		nullStr(inv.SourceMessageID),
		nullStr(inv.AttachmentID),
		nullStr(inv.Filename),
		inv.Vendor,
		nullStr(inv.InvoiceNumber),
		nullStr(inv.OrderNumber),
		nullStr(inv.Date),
		inv.Total,
		inv.Subtotal,
		inv.Taxes,
		inv.Shipping,
		inv.Discount,
		inv.Currency,
		items,
		nullStr(inv.PaymentMethod),
		nullStr(inv.Notes),
		inv.WarrantyPeriodDays,
		nullStr(inv.WarrantyEndDate),
		inv.Confidence,
		inv.Valid,
		nullStr(string(inv.Category)),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ListInvoices retrieves stored invoices, newest first.
func (a *InvoiceAdapter) ListInvoices(ctx context.Context, limit, offset int) ([]*domain.ParsedInvoice, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	var rows []invoiceRow
	query := `
		SELECT id, source_message_id, attachment_id, filename, vendor,
			invoice_number, order_number, invoice_date,
			total, subtotal, taxes, shipping, discount, currency, items,
			payment_method, notes, warranty_period_days, warranty_end_date,
			confidence, valid, category, created_at
		FROM parsed_invoices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	if err := a.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, err
	}

	result := make([]*domain.ParsedInvoice, len(rows))
	for i, row := range rows {
		inv, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		result[i] = inv
	}
	return result, nil
}

// Ensure InvoiceAdapter implements out.InvoiceRepository
var _ out.InvoiceRepository = (*InvoiceAdapter)(nil)
