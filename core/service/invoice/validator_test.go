package invoice

import (
	"reflect"
	"testing"

	"spendscan/core/domain"
)

func TestSanitizeDefaults(t *testing.T) {
	inv := &domain.ParsedInvoice{Total: -5, Subtotal: -1}
	Sanitize(inv)

	if inv.Vendor != "Unknown Merchant" {
		t.Errorf("vendor = %q", inv.Vendor)
	}
	if inv.Currency != domain.DefaultCurrency {
		t.Errorf("currency = %q", inv.Currency)
	}
	if inv.Total != 0 || inv.Subtotal != 0 {
		t.Errorf("negative money not clamped: %v / %v", inv.Total, inv.Subtotal)
	}
	if inv.Category != domain.CategoryOther {
		t.Errorf("category = %q", inv.Category)
	}
}

func TestSanitizeItems(t *testing.T) {
	inv := &domain.ParsedInvoice{
		Items: []domain.InvoiceItem{
			{Name: " Mouse ", Quantity: 0, UnitPrice: -10, TotalPrice: 500},
		},
	}
	Sanitize(inv)

	item := inv.Items[0]
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", item.Quantity)
	}
	if item.UnitPrice != 0 {
		t.Errorf("unitPrice = %v, want 0", item.UnitPrice)
	}
	if item.Name != "Mouse" {
		t.Errorf("name = %q", item.Name)
	}
}

func TestSanitizeDates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid", "2024-01-15", "2024-01-15"},
		{"wrong shape", "15/01/2024", ""},
		{"partial", "2024-01", ""},
		{"not a calendar day", "2024-02-30", ""},
		{"garbage", "soon", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &domain.ParsedInvoice{Date: tt.in}
			Sanitize(inv)
			if inv.Date != tt.want {
				t.Errorf("date = %q, want %q", inv.Date, tt.want)
			}
		})
	}
}

func TestSanitizeWarrantyEndDate(t *testing.T) {
	inv := &domain.ParsedInvoice{Date: "2024-01-10", WarrantyPeriodDays: 365}
	Sanitize(inv)

	// 2024 is a leap year: 365 calendar days from Jan 10 lands on Jan 9.
	if inv.WarrantyEndDate != "2025-01-09" {
		t.Errorf("warrantyEndDate = %q, want 2025-01-09", inv.WarrantyEndDate)
	}
}

func TestSanitizeWarrantyEndDateNonLeap(t *testing.T) {
	inv := &domain.ParsedInvoice{Date: "2023-01-10", WarrantyPeriodDays: 365}
	Sanitize(inv)

	if inv.WarrantyEndDate != "2024-01-10" {
		t.Errorf("warrantyEndDate = %q, want 2024-01-10", inv.WarrantyEndDate)
	}
}

func TestSanitizeConfidenceClamp(t *testing.T) {
	inv := &domain.ParsedInvoice{Confidence: 140}
	Sanitize(inv)
	if inv.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", inv.Confidence)
	}

	inv = &domain.ParsedInvoice{Confidence: -3}
	Sanitize(inv)
	if inv.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", inv.Confidence)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inv := &domain.ParsedInvoice{
		Vendor:             "",
		Date:               "2024-01-10",
		DueDate:            "not-a-date",
		Total:              -100,
		WarrantyPeriodDays: 365,
		Confidence:         250,
		Items:              []domain.InvoiceItem{{Quantity: 0, UnitPrice: -1}},
	}
	Sanitize(inv)
	first := *inv
	firstItems := append([]domain.InvoiceItem(nil), inv.Items...)

	Sanitize(inv)
	if !reflect.DeepEqual(first, *inv) || !reflect.DeepEqual(firstItems, inv.Items) {
		t.Errorf("second pass changed the record:\nfirst:  %+v\nsecond: %+v", first, *inv)
	}
}
