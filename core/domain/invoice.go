package domain

// DefaultCurrency is assumed when a parsed document carries no currency.
const DefaultCurrency = "INR"

// InvoiceItem is one line item of a parsed invoice.
type InvoiceItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
	SKU        string  `json:"sku,omitempty"`
}

// ParsedInvoice is the structured record produced by the invoice parser,
// regardless of which tier produced it. All monetary fields are >= 0, item
// quantities >= 1, and date fields are either empty or strict YYYY-MM-DD
// after the validator has run.
type ParsedInvoice struct {
	SourceMessageID string `json:"sourceMessageId,omitempty"`
	AttachmentID    string `json:"attachmentId,omitempty"`
	Filename        string `json:"filename,omitempty"`

	Vendor        string        `json:"vendor"`
	InvoiceNumber string        `json:"invoiceNumber,omitempty"`
	OrderNumber   string        `json:"orderNumber,omitempty"`
	PONumber      string        `json:"poNumber,omitempty"`
	Date          string        `json:"date,omitempty"` // YYYY-MM-DD
	DueDate       string        `json:"dueDate,omitempty"`
	Total         float64       `json:"total"`
	Subtotal      float64       `json:"subtotal"`
	Taxes         float64       `json:"taxes"`
	Shipping      float64       `json:"shipping"`
	Discount      float64       `json:"discount"`
	Currency      string        `json:"currency"`
	Items         []InvoiceItem `json:"items,omitempty"`

	BillingAddress  string `json:"billingAddress,omitempty"`
	ShippingAddress string `json:"shippingAddress,omitempty"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	Notes           string `json:"notes,omitempty"`

	WarrantyPeriodDays int    `json:"warrantyPeriodDays,omitempty"`
	WarrantyEndDate    string `json:"warrantyEndDate,omitempty"`

	// Confidence is 0-100. Both tiers populate it; the fallback tier
	// computes it heuristically from extraction quality.
	Confidence int `json:"confidence"`

	// Valid is false when the fallback parser found no purchase signal at
	// all. Downstream code uses it to distinguish "nothing found" from a
	// parse error.
	Valid bool `json:"valid"`

	Category SpendCategory `json:"category,omitempty"`
	RawText  string        `json:"rawText,omitempty"` // truncated excerpt
}

// EmptyInvoice is the explicit "nothing found" marker returned when the
// fallback parser sees no purchase indicators.
func EmptyInvoice(filename string) ParsedInvoice {
	return ParsedInvoice{
		Filename:   filename,
		Vendor:     "Unknown Merchant",
		Currency:   DefaultCurrency,
		Confidence: 10,
		Valid:      false,
	}
}

// WarrantyRisk grades how urgent a warranty finding is.
type WarrantyRisk string

const (
	WarrantyRiskLow    WarrantyRisk = "low"
	WarrantyRiskMedium WarrantyRisk = "medium"
	WarrantyRiskHigh   WarrantyRisk = "high"
)

// WarrantyAnalysis is the warranty-focused report derived from a parsed
// document.
type WarrantyAnalysis struct {
	Found           bool         `json:"found"`
	PeriodDays      int          `json:"periodDays,omitempty"`
	EndDate         string       `json:"endDate,omitempty"`
	DaysUntilExpiry int          `json:"daysUntilExpiry,omitempty"`
	ExpiryWarning   bool         `json:"expiryWarning"`
	Risk            WarrantyRisk `json:"risk"`
	KeyFindings     []string     `json:"keyFindings,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
	Confidence      int          `json:"confidence"`
}
