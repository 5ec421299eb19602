package invoice

import (
	"regexp"
	"strings"

	"spendscan/core/domain"
)

var strictDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Sanitize is the single point where structured output, from either
// tier, becomes trustworthy. It never rejects: every field is coerced
// to a safe value in place. Idempotent, so re-running it on clean data
// changes nothing.
func Sanitize(inv *domain.ParsedInvoice) {
	if inv == nil {
		return
	}

	inv.Vendor = strings.TrimSpace(inv.Vendor)
	if inv.Vendor == "" {
		inv.Vendor = "Unknown Merchant"
	}
	if strings.TrimSpace(inv.Currency) == "" {
		inv.Currency = domain.DefaultCurrency
	}

	inv.Total = clampMoney(inv.Total)
	inv.Subtotal = clampMoney(inv.Subtotal)
	inv.Taxes = clampMoney(inv.Taxes)
	inv.Shipping = clampMoney(inv.Shipping)
	inv.Discount = clampMoney(inv.Discount)

	for i := range inv.Items {
		item := &inv.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		item.UnitPrice = clampMoney(item.UnitPrice)
		item.TotalPrice = clampMoney(item.TotalPrice)
	}

	inv.Date = sanitizeDate(inv.Date)
	inv.DueDate = sanitizeDate(inv.DueDate)
	inv.WarrantyEndDate = sanitizeDate(inv.WarrantyEndDate)

	if inv.WarrantyPeriodDays < 0 {
		inv.WarrantyPeriodDays = 0
	}
	if inv.WarrantyPeriodDays > 0 && inv.Date != "" {
		inv.WarrantyEndDate = WarrantyEndDate(inv.Date, inv.WarrantyPeriodDays)
	}

	if inv.Confidence < 0 {
		inv.Confidence = 0
	}
	if inv.Confidence > 100 {
		inv.Confidence = 100
	}

	if inv.Category == "" {
		inv.Category = domain.CategoryOther
	}
}

func clampMoney(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// sanitizeDate blanks anything that is not strict YYYY-MM-DD on a real
// calendar day.
func sanitizeDate(s string) string {
	s = strings.TrimSpace(s)
	if !strictDateRe.MatchString(s) {
		return ""
	}
	if WarrantyEndDate(s, 1) == "" {
		// WarrantyEndDate parses with the same layout; reuse it as the
		// calendar check.
		return ""
	}
	return s
}
