package query

import (
	"strings"
	"testing"
	"time"

	"spendscan/core/domain"
)

func window(kind domain.RecordKind) domain.SearchWindow {
	return domain.SearchWindow{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Kind:  kind,
	}
}

func TestBuildPurchaseQueries(t *testing.T) {
	b := NewBuilder(nil)
	queries := b.Build(window(domain.KindPurchase))

	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(queries))
	}
	for i, q := range queries {
		if !strings.Contains(q, "in:primary") {
			t.Errorf("query %d missing primary filter: %q", i, q)
		}
		if !strings.Contains(q, "after:2024/03/01") {
			t.Errorf("query %d missing after bound: %q", i, q)
		}
	}
	if !strings.Contains(queries[0], "subject:(") || !strings.Contains(queries[0], "invoice") {
		t.Errorf("keyword query malformed: %q", queries[0])
	}
	if !strings.Contains(queries[1], "from:(") || !strings.Contains(queries[1], "amazon") {
		t.Errorf("vendor query malformed: %q", queries[1])
	}
}

func TestBuildKeywordSwaps(t *testing.T) {
	b := NewBuilder(nil)

	tests := []struct {
		kind     domain.RecordKind
		want     string
		dontWant string
	}{
		{domain.KindRefund, "refund", "warranty"},
		{domain.KindWarranty, "warranty", "refund"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			q := b.Build(window(tt.kind))[0]
			if !strings.Contains(q, tt.want) {
				t.Errorf("query missing %q: %q", tt.want, q)
			}
			if strings.Contains(q, tt.dontWant) {
				t.Errorf("query should not contain %q: %q", tt.dontWant, q)
			}
		})
	}
}

func TestBuildBroadDocumentQuery(t *testing.T) {
	b := NewBuilder(nil)
	queries := b.Build(window(""))

	if len(queries) != 1 {
		t.Fatalf("expected 1 broad query, got %d", len(queries))
	}
	if !strings.Contains(queries[0], "has:attachment") {
		t.Errorf("broad query missing has:attachment: %q", queries[0])
	}
}

func TestBuildCustomVendors(t *testing.T) {
	b := NewBuilder([]string{"acme"})
	q := b.Build(window(domain.KindPurchase))[1]
	if !strings.Contains(q, "from:(acme)") {
		t.Errorf("custom vendor list not used: %q", q)
	}
}
