// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"spendscan/core/domain"
	"spendscan/core/port/out"
)

// =============================================================================
// Record Adapter (PostgreSQL)
// =============================================================================

// RecordAdapter implements out.RecordRepository using PostgreSQL.
type RecordAdapter struct {
	db *sqlx.DB
}

// NewRecordAdapter creates a new RecordAdapter.
func NewRecordAdapter(db *sqlx.DB) *RecordAdapter {
	return &RecordAdapter{db: db}
}

// =============================================================================
// Database Row Mapping
// =============================================================================

type recordRow struct {
	ID              uuid.UUID      `db:"id"`
	SourceMessageID string         `db:"source_message_id"`
	Kind            string         `db:"kind"`
	Vendor          string         `db:"vendor"`
	Amount          float64        `db:"amount"`
	Date            sql.NullTime   `db:"record_date"`
	Subject         string         `db:"subject"`
	Category        string         `db:"category"`
	Labels          pq.StringArray `db:"labels"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r *recordRow) toEntity() *domain.ClassifiedRecord {
	rec := &domain.ClassifiedRecord{
		ID:              r.ID,
		SourceMessageID: r.SourceMessageID,
		Kind:            domain.RecordKind(r.Kind),
		Vendor:          r.Vendor,
		Amount:          r.Amount,
		Subject:         r.Subject,
		Category:        domain.SpendCategory(r.Category),
		Labels:          []string(r.Labels),
		CreatedAt:       r.CreatedAt,
	}
	if r.Date.Valid {
		rec.Date = r.Date.Time
	}
	return rec
}

// =============================================================================
// CRUD Operations
// =============================================================================

// SaveRecord upserts a record keyed on its source message id, so
// re-running an overlapping search window never duplicates rows.
func (a *RecordAdapter) SaveRecord(ctx context.Context, rec *domain.ClassifiedRecord) error {
	query := `
		INSERT INTO spend_records (id, source_message_id, kind, vendor, amount, record_date, subject, category, labels, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_message_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			vendor = EXCLUDED.vendor,
			amount = EXCLUDED.amount,
			record_date = EXCLUDED.record_date,
			subject = EXCLUDED.subject,
			category = EXCLUDED.category,
			labels = EXCLUDED.labels
		RETURNING id, created_at`

	var date sql.NullTime
	if !rec.Date.IsZero() {
		date = sql.NullTime{Time: rec.Date, Valid: true}
	}

	return a.db.QueryRowContext(ctx, query,
		rec.ID,
		rec.SourceMessageID,
		string(rec.Kind),
		rec.Vendor,
		rec.Amount,
		date,
		rec.Subject,
		string(rec.Category),
		pq.StringArray(rec.Labels),
		rec.CreatedAt,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetRecord retrieves a record by ID. Returns nil when not found.
func (a *RecordAdapter) GetRecord(ctx context.Context, id uuid.UUID) (*domain.ClassifiedRecord, error) {
	var row recordRow
	query := `
		SELECT id, source_message_id, kind, vendor, amount, record_date, subject, category, labels, created_at
		FROM spend_records
		WHERE id = $1`

	err := a.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return row.toEntity(), nil
}

// ListRecords retrieves records, optionally filtered by kind, newest first.
func (a *RecordAdapter) ListRecords(ctx context.Context, kind domain.RecordKind, limit, offset int) ([]*domain.ClassifiedRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	var rows []recordRow
	var err error

	if kind == "" {
		query := `
			SELECT id, source_message_id, kind, vendor, amount, record_date, subject, category, labels, created_at
			FROM spend_records
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`
		err = a.db.SelectContext(ctx, &rows, query, limit, offset)
	} else {
		query := `
			SELECT id, source_message_id, kind, vendor, amount, record_date, subject, category, labels, created_at
			FROM spend_records
			WHERE kind = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		err = a.db.SelectContext(ctx, &rows, query, string(kind), limit, offset)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ClassifiedRecord, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

// DeleteRecord deletes a record by ID.
func (a *RecordAdapter) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	_, err := a.db.ExecContext(ctx, "DELETE FROM spend_records WHERE id = $1", id)
	return err
}

// Ensure RecordAdapter implements out.RecordRepository
var _ out.RecordRepository = (*RecordAdapter)(nil)
