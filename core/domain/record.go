package domain

import (
	"time"

	"github.com/google/uuid"
)

// SpendCategory is the spending bucket assigned to purchase records.
type SpendCategory string

const (
	CategoryFoodDining    SpendCategory = "Food & Dining"
	CategoryShopping      SpendCategory = "Shopping"
	CategoryTravel        SpendCategory = "Travel"
	CategoryEntertainment SpendCategory = "Entertainment"
	CategoryUtilities     SpendCategory = "Utilities"
	CategoryElectronics   SpendCategory = "Electronics"
	CategoryOther         SpendCategory = "Other"
)

// ClassifiedRecord is the pipeline output for one qualifying message.
// Messages classified as KindOther never produce a record.
type ClassifiedRecord struct {
	ID              uuid.UUID     `json:"id"`
	SourceMessageID string        `json:"sourceMessageId"`
	Kind            RecordKind    `json:"kind"`
	Vendor          string        `json:"vendor"`
	Amount          float64       `json:"amount"`
	Date            time.Time     `json:"date"`
	Subject         string        `json:"subject"`
	Category        SpendCategory `json:"category"`
	Labels          []string      `json:"labels,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// ExtractionResult is what one full pipeline run hands to the caller.
// Partial results are valid: a run abandoned mid-batch keeps everything
// collected so far.
type ExtractionResult struct {
	Records   []ClassifiedRecord   `json:"records"`
	Documents []DocumentDescriptor `json:"documents"`
	Invoices  []ParsedInvoice      `json:"invoices"`
	Scanned   int                  `json:"scanned"`
	Skipped   int                  `json:"skipped"`
}
