package classify

import "strings"

// Skip reasons reported for filtered messages.
const (
	SkipCreditCardStatement = "credit_card_statement"
	SkipPromotional         = "promotional_email"
)

var creditCardKeywords = []string{
	"credit card statement", "card statement", "bank statement",
	"credit card bill", "card bill", "e-statement",
}

var bankDomains = []string{
	"hdfcbank.com", "icicibank.com", "sbicard.com", "axisbank.com",
	"kotak.com",
}

// promotionalVendors flags senders that only ever send marketing mail.
var promotionalVendors = []string{
	"newsletter", "no-reply@sg.newsletter", "offers@", "alert@indeed",
	"opportunities@", "technews@", "csat.feedback@", "noreply-ncs@",
}

var promotionalSubjectKeywords = []string{
	"newsletter", "unsubscribe", "price drop", "price alert", "deals",
	"discount", "sale", "offer", "promotion", "festival", "job alert",
	"career opportunity", "daily digest", "weekly update", "selected for you",
	"up to 60% off", "savings alert", "one-time password", "your opinion matters",
	"feedback matters",
}

var promotionalBodyKeywords = []string{
	"unsubscribe", "marketing communications", "limited time offer",
	"exclusive offer", "flash sale", "discount code", "coupon",
	"manage preferences", "don't miss out", "while supplies last",
}

// transactionalSubjectKeywords let a forwarded or vendor mail through
// even when it also carries promotional-looking words.
var transactionalSubjectKeywords = []string{
	"order", "delivered", "invoice", "confirmation", "purchase",
	"payment", "booking", "ticket", "warranty", "receipt", "refund",
}

// purchaseVendors are senders whose transactional mail must never be
// filtered; only explicit marketing subjects get skipped for them.
var purchaseVendors = []string{
	"swiggy", "zomato", "amazon", "myntra", "flipkart", "uber",
	"olacabs", "bookmyshow", "paytm", "phonepe", "razorpay", "oyorooms",
	"atomberg", "ticketnew",
}

// ShouldSkip reports whether a message is excluded from extraction
// before any parsing happens, and why.
func ShouldSkip(subject, sender, body string) (string, bool) {
	if IsCreditCardStatement(subject, sender) {
		return SkipCreditCardStatement, true
	}
	if IsPromotional(subject, sender, body) {
		return SkipPromotional, true
	}
	return "", false
}

// IsCreditCardStatement flags bank statements, which look like big
// purchases but are not.
func IsCreditCardStatement(subject, sender string) bool {
	subjectLower := strings.ToLower(subject)
	senderLower := strings.ToLower(sender)

	for _, k := range creditCardKeywords {
		if strings.Contains(subjectLower, k) || strings.Contains(senderLower, k) {
			return true
		}
	}
	for _, d := range bankDomains {
		if strings.Contains(senderLower, d) {
			return true
		}
	}
	return false
}

// IsPromotional flags marketing mail. Known purchase vendors get the
// benefit of the doubt: only a clearly promotional subject skips them.
// Forwarded mail with transactional language is always allowed.
func IsPromotional(subject, sender, body string) bool {
	subjectLower := strings.ToLower(subject)
	senderLower := strings.ToLower(sender)
	bodyLower := strings.ToLower(body)

	for _, vendor := range purchaseVendors {
		if strings.Contains(senderLower, vendor) {
			return containsAny(subjectLower, promotionalSubjectKeywords)
		}
	}

	if strings.HasPrefix(subjectLower, "fwd:") || strings.HasPrefix(subjectLower, "re:") {
		if containsAny(subjectLower, transactionalSubjectKeywords) {
			return false
		}
	}

	if containsAny(subjectLower, promotionalSubjectKeywords) {
		return true
	}
	if containsAny(senderLower, promotionalVendors) {
		return true
	}
	return containsAny(bodyLower, promotionalBodyKeywords)
}
