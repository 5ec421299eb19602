package query

import (
	"fmt"
	"strings"

	"spendscan/core/domain"
)

// Provider date format for the after: operator.
const dateLayout = "2006/01/02"

// Keyword alternations per record kind. Quoted phrases survive the
// provider's tokenizer as exact phrases.
var (
	purchaseKeywords = []string{
		"invoice", "receipt", "order", "payment", "confirmation",
		"bill", "booking", "purchase",
	}
	refundKeywords = []string{
		"refund", "refunded", "return", "returned", "cancellation",
		"reversal", "\"money back\"",
	}
	warrantyKeywords = []string{
		"warranty", "guarantee", "protection", "\"extended warranty\"",
		"\"service plan\"", "repair",
	}
)

// DefaultVendors is the marketplace / payment-app allow-list used for
// sender-based discovery.
var DefaultVendors = []string{
	"swiggy", "zomato", "amazon", "myntra", "flipkart", "cred",
	"uber", "ola", "bookmyshow", "paytm", "phonepe", "razorpay",
	"oyorooms",
}

// Builder turns a search window into provider query strings.
type Builder struct {
	vendors []string
}

// NewBuilder uses DefaultVendors when vendors is nil.
func NewBuilder(vendors []string) *Builder {
	if vendors == nil {
		vendors = DefaultVendors
	}
	return &Builder{vendors: vendors}
}

// Build returns the ordered queries for one window. A keyword query and
// a vendor query are returned separately so either discovery path can
// hit; the retriever deduplicates overlaps. Without a kind hint a single
// broad attachment query is returned instead.
func (b *Builder) Build(w domain.SearchWindow) []string {
	base := fmt.Sprintf("in:primary after:%s", w.Start.Format(dateLayout))

	var keywords []string
	switch w.Kind {
	case domain.KindPurchase:
		keywords = purchaseKeywords
	case domain.KindRefund:
		keywords = refundKeywords
	case domain.KindWarranty:
		keywords = warrantyKeywords
	default:
		return []string{base + " has:attachment"}
	}

	return []string{
		fmt.Sprintf("%s subject:(%s)", base, strings.Join(keywords, " OR ")),
		fmt.Sprintf("%s from:(%s)", base, strings.Join(b.vendors, " OR ")),
	}
}
