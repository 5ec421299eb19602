package invoice

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"spendscan/core/domain"
	"spendscan/core/service/amount"
	"spendscan/core/service/classify"
)

// Fallback amount bounds, tighter than the general extractor so account
// numbers in payment mails never read as totals.
const (
	fallbackMinAmount = 10
	fallbackMaxAmount = 50_000
)

const rawTextLimit = 1000

// purchaseIndicators gate the whole fallback parse: with none present
// the parser reports an explicit empty invoice instead of fabricating.
var purchaseIndicators = []string{
	"invoice", "bill", "receipt", "payment", "order", "purchase",
	"total", "amount", "paid", "₹", "rs.", "inr", "rupee",
}

var (
	vendorLabelRe = regexp.MustCompile(`(?i)(?:vendor|company|merchant|bill\s+to|invoice\s+from|sold\s+by)[:\s]+([A-Za-z][A-Za-z\s&\.]{2,60})`)

	// Forwarded-mail shapes: "your order with Acme is delivered".
	vendorForwardRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:with|from|at)\s+([A-Za-z][A-Za-z\s&\.\-]{1,40}?)\s+(?:is\s+delivered|order|invoice|confirmation)`),
		regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s&\.\-]{1,40}?)\s*[-:]\s*(?:order|invoice|confirmation|payment|fees|charges)`),
	}

	// Labeled reference numbers. The capture stays case-sensitive so
	// prose after the label ("invoice for your...") never reads as a
	// number.
	invoiceNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i:invoice\s*(?:no\.?|number)?\s*#?\s*:?\s*)([A-Z0-9][A-Z0-9\-]{2,})`),
		regexp.MustCompile(`(?i:bill\s*(?:no\.?|number)?\s*#?\s*:?\s*)([A-Z0-9][A-Z0-9\-]{2,})`),
		regexp.MustCompile(`(?i:receipt\s*(?:no\.?|number)?\s*#?\s*:?\s*)([A-Z0-9][A-Z0-9\-]{2,})`),
		regexp.MustCompile(`(?i:transaction\s*(?:id|no\.?|number)?\s*#?\s*:?\s*)([A-Z0-9][A-Z0-9\-]{2,})`),
		regexp.MustCompile(`(?i:ref\s*(?:no\.?|number)?\s*#?\s*:?\s*)([A-Z0-9][A-Z0-9\-]{2,})`),
	}

	orderNumberRe = regexp.MustCompile(`(?i:order\s*(?:id|no\.?|number)?\s*#?\s*:?\s*)([A-Z0-9][A-Z0-9\-]{2,})`)

	// Date shapes, tried in order. Day-first forms dominate Indian
	// receipts, so they come before the ISO form.
	dateDayFirstRe  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	dateISORe       = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dateTextMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{2,4})\b`)

	taxRe      = regexp.MustCompile(`(?i)(?:tax|gst|cgst|sgst|igst|vat)[:\s]*(?:₹|rs\.?|inr)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)
	shippingRe = regexp.MustCompile(`(?i)(?:shipping|delivery\s+fee|freight)[:\s]*(?:₹|rs\.?|inr)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)
	discountRe = regexp.MustCompile(`(?i)discount[:\s]*(?:₹|rs\.?|inr)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)

	// "1x Wireless Headphones - ₹2,500.00"
	lineItemRe = regexp.MustCompile(`(?i)(\d+)\s*x\s*([A-Za-z0-9][A-Za-z0-9\s\-\.]*?)\s*[-:]?\s*₹\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)
)

var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

var paymentMethods = []string{
	"Credit Card", "Debit Card", "UPI", "Net Banking", "Cash on Delivery",
	"Wallet", "Bank Transfer", "Cash",
}

// FallbackParser is the deterministic tier. It never errors: either a
// populated invoice or an explicit empty one comes back.
type FallbackParser struct {
	classifier *classify.Classifier
}

func NewFallbackParser(classifier *classify.Classifier) *FallbackParser {
	if classifier == nil {
		classifier = classify.NewClassifier()
	}
	return &FallbackParser{classifier: classifier}
}

// Parse extracts an invoice from free text. sender is the mail From
// header, used when the text names no vendor.
func (p *FallbackParser) Parse(text, filename, sender string) *domain.ParsedInvoice {
	if !containsAnyFold(text, purchaseIndicators) {
		empty := domain.EmptyInvoice(filename)
		return &empty
	}

	inv := &domain.ParsedInvoice{
		Filename: filename,
		Currency: domain.DefaultCurrency,
		Valid:    true,
	}

	if extracted, ok := amount.ExtractInRange(text, fallbackMinAmount, fallbackMaxAmount); ok {
		inv.Total = extracted.Value
	}

	inv.Vendor = extractVendor(text, sender)
	inv.Date = extractDate(text)
	inv.InvoiceNumber = firstMatch(text, invoiceNumberRes)
	if m := orderNumberRe.FindStringSubmatch(text); m != nil {
		inv.OrderNumber = m[1]
	}
	inv.Taxes = matchMoney(text, taxRe)
	inv.Shipping = matchMoney(text, shippingRe)
	inv.Discount = matchMoney(text, discountRe)
	inv.Items = extractItems(text)
	inv.PaymentMethod = detectPaymentMethod(text)

	if days, raw := FindWarrantyPeriod(text); days > 0 {
		inv.WarrantyPeriodDays = days
		inv.Notes = raw
	}

	// No explicit breakdown: estimate subtotal and tax as a 90/10
	// split of the total.
	if inv.Total > 0 && inv.Taxes == 0 {
		inv.Subtotal = round2(inv.Total * 0.9)
		inv.Taxes = round2(inv.Total * 0.1)
	} else if inv.Total > 0 {
		inv.Subtotal = round2(inv.Total - inv.Taxes)
	}

	inv.Category = p.classifier.Category(text, sender)
	inv.Confidence = fallbackConfidence(text, inv)
	inv.RawText = truncate(text, rawTextLimit)
	return inv
}

// fallbackConfidence scores extraction quality 0-100. Tunable: each
// signal is worth a fixed slice, capped at 100.
func fallbackConfidence(text string, inv *domain.ParsedInvoice) int {
	score := 0
	if len(text) > 50 {
		score += 20
	}
	if inv.Total > 0 {
		score += 30
	}
	if inv.InvoiceNumber != "" || inv.OrderNumber != "" {
		score += 20
	}
	if inv.Vendor != "" && inv.Vendor != "Unknown Merchant" {
		score += 20
	}
	if strings.Contains(text, "₹") || containsAnyFold(text, []string{"rupee", "inr"}) {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

func extractVendor(text, sender string) string {
	if m := vendorLabelRe.FindStringSubmatch(text); m != nil {
		if v := cleanVendor(m[1]); v != "" {
			return v
		}
	}
	for _, re := range vendorForwardRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := cleanVendor(m[1]); v != "" {
				return v
			}
		}
	}
	if v := vendorFromSender(sender); v != "" {
		return v
	}
	return "Unknown Merchant"
}

func cleanVendor(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 100 {
		return ""
	}
	return s
}

// vendorFromSender prefers the display name, then the mailbox's domain
// label ("orders@acme.in" reads as "Acme").
func vendorFromSender(sender string) string {
	if sender == "" {
		return ""
	}
	addr, err := mail.ParseAddress(sender)
	if err != nil {
		return strings.TrimSpace(sender)
	}
	if addr.Name != "" {
		return addr.Name
	}
	at := strings.IndexByte(addr.Address, '@')
	if at < 0 {
		return addr.Address
	}
	host := addr.Address[at+1:]
	label := strings.Split(host, ".")[0]
	if label == "" {
		return addr.Address
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// extractDate normalizes the first parseable date shape to YYYY-MM-DD.
func extractDate(text string) string {
	if m := dateDayFirstRe.FindStringSubmatch(text); m != nil {
		if s := formatYMD(m[3], m[2], m[1]); s != "" {
			return s
		}
	}
	if m := dateISORe.FindStringSubmatch(text); m != nil {
		if s := formatYMD(m[1], m[2], m[3]); s != "" {
			return s
		}
	}
	if m := dateTextMonthRe.FindStringSubmatch(text); m != nil {
		month := monthNumbers[strings.ToLower(m[2])[:3]]
		if s := formatYMD(m[3], month, m[1]); s != "" {
			return s
		}
	}
	return ""
}

// formatYMD validates the pieces and renders zero-padded YYYY-MM-DD,
// or "" when implausible. Two-digit years are assumed 20xx.
func formatYMD(year, month, day string) string {
	if len(year) == 2 {
		year = "20" + year
	}
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if y < 2000 || y > 2100 || m < 1 || m > 12 || d < 1 || d > 31 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

func firstMatch(text string, res []*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func matchMoney(text string, re *regexp.Regexp) float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func extractItems(text string) []domain.InvoiceItem {
	var items []domain.InvoiceItem
	for _, m := range lineItemRe.FindAllStringSubmatch(text, -1) {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty < 1 {
			continue
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", ""), 64)
		if err != nil {
			continue
		}
		items = append(items, domain.InvoiceItem{
			Name:       strings.TrimSpace(m[2]),
			Quantity:   qty,
			UnitPrice:  round2(price / float64(qty)),
			TotalPrice: price,
		})
	}
	return items
}

func detectPaymentMethod(text string) string {
	lower := strings.ToLower(text)
	for _, method := range paymentMethods {
		if strings.Contains(lower, strings.ToLower(method)) {
			return method
		}
	}
	return ""
}

func containsAnyFold(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
