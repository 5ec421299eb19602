package invoice

import (
	"testing"

	"spendscan/core/domain"
)

func TestFallbackOrderConfirmation(t *testing.T) {
	p := NewFallbackParser(nil)
	text := "Thank you for your order! Total: ₹1,250.00 Order ID: AB-9912"

	inv := p.Parse(text, "", "Acme Store <orders@acme.in>")
	Sanitize(inv)

	if !inv.Valid {
		t.Fatal("expected a valid invoice")
	}
	if inv.Total != 1250.00 {
		t.Errorf("total = %v, want 1250.00", inv.Total)
	}
	if inv.OrderNumber != "AB-9912" {
		t.Errorf("orderNumber = %q, want AB-9912", inv.OrderNumber)
	}
	if inv.Vendor != "Acme Store" {
		t.Errorf("vendor = %q, want sender display name", inv.Vendor)
	}
	if inv.Confidence < 50 {
		t.Errorf("confidence = %d, want >= 50", inv.Confidence)
	}
	if inv.Category == "" {
		t.Error("category not populated")
	}
}

func TestFallbackNoPurchaseSignal(t *testing.T) {
	p := NewFallbackParser(nil)
	inv := p.Parse("Let's catch up next week over coffee.", "note.txt", "friend@gmail.com")

	if inv.Valid {
		t.Fatal("expected explicit invalid invoice")
	}
	if inv.Vendor != "Unknown Merchant" {
		t.Errorf("vendor = %q", inv.Vendor)
	}
	if inv.Total != 0 {
		t.Errorf("total = %v, want 0", inv.Total)
	}
}

func TestFallbackAmountRange(t *testing.T) {
	p := NewFallbackParser(nil)
	// The account number exceeds the fallback cap; the fee stays in.
	inv := p.Parse("Payment received. Account 9988776655. Fee: ₹499", "", "billing@utility.in")

	if inv.Total != 499 {
		t.Errorf("total = %v, want 499", inv.Total)
	}
}

func TestFallbackSubtotalTaxSplit(t *testing.T) {
	p := NewFallbackParser(nil)
	inv := p.Parse("Order total ₹1,000.00 paid via UPI", "", "orders@shop.in")

	if inv.Total != 1000 {
		t.Fatalf("total = %v", inv.Total)
	}
	if inv.Subtotal != 900 || inv.Taxes != 100 {
		t.Errorf("split = %v/%v, want 900/100", inv.Subtotal, inv.Taxes)
	}
}

func TestFallbackExplicitTaxWins(t *testing.T) {
	p := NewFallbackParser(nil)
	inv := p.Parse("Invoice total ₹1,180.00, GST: ₹180.00", "", "orders@shop.in")

	if inv.Taxes != 180 {
		t.Errorf("taxes = %v, want explicit 180", inv.Taxes)
	}
	if inv.Subtotal != 1000 {
		t.Errorf("subtotal = %v, want 1000", inv.Subtotal)
	}
}

func TestFallbackDateShapes(t *testing.T) {
	p := NewFallbackParser(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"day first slash", "Invoice dated 15/01/2024 total ₹500", "2024-01-15"},
		{"day first dash", "Bill date 5-3-24, amount ₹500", "2024-03-05"},
		{"iso", "Receipt issued 2024-01-15, paid ₹500", "2024-01-15"},
		{"textual month", "Order placed 15 January 2024, total ₹500", "2024-01-15"},
		{"no date", "Payment of ₹500 received", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := p.Parse(tt.text, "", "x@y.in")
			if inv.Date != tt.want {
				t.Errorf("date = %q, want %q", inv.Date, tt.want)
			}
		})
	}
}

func TestFallbackLineItems(t *testing.T) {
	p := NewFallbackParser(nil)
	text := "Invoice\n2x Wireless Mouse - ₹1,000.00\nTotal: ₹1,000.00"
	inv := p.Parse(text, "", "orders@shop.in")

	if len(inv.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(inv.Items))
	}
	item := inv.Items[0]
	if item.Quantity != 2 || item.TotalPrice != 1000 || item.UnitPrice != 500 {
		t.Errorf("item = %+v", item)
	}
	if item.Name != "Wireless Mouse" {
		t.Errorf("item name = %q", item.Name)
	}
}

func TestFallbackWarrantyPeriod(t *testing.T) {
	p := NewFallbackParser(nil)
	inv := p.Parse("Invoice ₹2,500. Includes 1 year manufacturer warranty.", "", "orders@shop.in")

	if inv.WarrantyPeriodDays != 365 {
		t.Errorf("warrantyPeriodDays = %d, want 365", inv.WarrantyPeriodDays)
	}
}

func TestVendorFromSender(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"Acme Store <orders@acme.in>", "Acme Store"},
		{"orders@acme.in", "Acme"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := vendorFromSender(tt.sender); got != tt.want {
			t.Errorf("vendorFromSender(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

func TestFallbackCategoryFromSender(t *testing.T) {
	p := NewFallbackParser(nil)
	inv := p.Parse("Your order total ₹450", "", "noreply@swiggy.in")
	if inv.Category != domain.CategoryFoodDining {
		t.Errorf("category = %v, want Food & Dining", inv.Category)
	}
}
