package classify

import (
	"testing"

	"spendscan/core/domain"
)

func TestClassifyKinds(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		subject string
		body    string
		sender  string
		want    domain.RecordKind
	}{
		{"refund keyword", "Your refund has been processed", "", "help@store.in", domain.KindRefund},
		{"warranty keyword", "Warranty registration complete", "", "care@brand.in", domain.KindWarranty},
		{"purchase keyword", "Payment received", "", "someone@shop.in", domain.KindPurchase},
		{"currency token only", "FYI", "charged ₹450 today", "x@y.in", domain.KindPurchase},
		{"known vendor no keywords", "hello there", "see attached", "orders@amazon.in", domain.KindPurchase},
		{"newsletter", "This week in tech", "some articles", "digest@news.io", domain.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.subject, tt.body, tt.sender); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyRefundBeatsPurchase(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("Refund for your order payment", "invoice attached", "orders@amazon.in")
	if got != domain.KindRefund {
		t.Errorf("refund keywords must outrank purchase keywords, got %v", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier()
	subject, body, sender := "Order confirmation and warranty info", "refund policy enclosed", "store@shop.in"

	first := c.Classify(subject, body, sender)
	for i := 0; i < 100; i++ {
		if got := c.Classify(subject, body, sender); got != first {
			t.Fatalf("run %d: got %v, first run gave %v", i, got, first)
		}
	}
}

func TestCategory(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		subject string
		sender  string
		want    domain.SpendCategory
	}{
		{"food vendor", "order delivered", "noreply@swiggy.in", domain.CategoryFoodDining},
		{"marketplace vendor", "your package", "ship-confirm@amazon.in", domain.CategoryShopping},
		{"travel vendor", "trip receipt", "receipts@uber.com", domain.CategoryTravel},
		{"subject keyword", "Electricity bill for March", "billing@bescom.org", domain.CategoryUtilities},
		{"sender wins over subject", "movie night snacks", "orders@zomato.in", domain.CategoryFoodDining},
		{"nothing matches", "hello", "a@b.c", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Category(tt.subject, tt.sender); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		sender     string
		body       string
		wantReason string
		wantSkip   bool
	}{
		{"bank statement", "Your credit card statement is ready", "alerts@hdfcbank.com", "", SkipCreditCardStatement, true},
		{"bank domain", "March summary", "statements@icicibank.com", "", SkipCreditCardStatement, true},
		{"newsletter subject", "Weekly update from us", "hi@startup.io", "", SkipPromotional, true},
		{"promotional body", "hello", "x@y.in", "click to unsubscribe from this list", SkipPromotional, true},
		{"vendor transactional", "Your order has been delivered", "noreply@swiggy.in", "", "", false},
		{"vendor marketing", "Weekend deals inside", "noreply@swiggy.in", "", SkipPromotional, true},
		{"forwarded purchase", "Fwd: Invoice for your purchase", "friend@gmail.com", "", "", false},
		{"plain purchase mail", "Payment confirmation", "orders@shop.in", "thanks for paying ₹450", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, skip := ShouldSkip(tt.subject, tt.sender, tt.body)
			if skip != tt.wantSkip || reason != tt.wantReason {
				t.Errorf("ShouldSkip() = (%q, %v), want (%q, %v)", reason, skip, tt.wantReason, tt.wantSkip)
			}
		})
	}
}
