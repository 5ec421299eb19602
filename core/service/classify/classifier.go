package classify

import (
	"strings"

	"spendscan/core/domain"
)

// Keyword sets, checked in priority order. First hit wins, so refund
// language outranks purchase language in the same message.
var (
	refundKeywords = []string{
		"refund", "refunded", "return initiated", "returned", "money back",
		"reimbursement", "cancellation", "cancelled", "reversal",
	}
	warrantyKeywords = []string{
		"warranty", "guarantee", "protection plan", "repair request",
		"coverage period",
	}
	purchaseKeywords = []string{
		"invoice", "receipt", "bill", "order", "payment", "confirmation",
		"booking", "delivery", "transaction", "purchase",
		"₹", "rs.", "inr", "rupee",
	}
)

type vendorCategory struct {
	vendor   string
	category domain.SpendCategory
}

// vendorCategories doubles as the known-vendor allow-list: any sender
// matching an entry classifies as purchase even without purchase
// keywords. Ordered so category lookup is deterministic.
var vendorCategories = []vendorCategory{
	{"swiggy", domain.CategoryFoodDining},
	{"zomato", domain.CategoryFoodDining},
	{"amazon", domain.CategoryShopping},
	{"flipkart", domain.CategoryShopping},
	{"myntra", domain.CategoryShopping},
	{"uber", domain.CategoryTravel},
	{"olacabs", domain.CategoryTravel},
	{"oyorooms", domain.CategoryTravel},
	{"makemytrip", domain.CategoryTravel},
	{"irctc", domain.CategoryTravel},
	{"bookmyshow", domain.CategoryEntertainment},
	{"ticketnew", domain.CategoryEntertainment},
	{"atomberg", domain.CategoryElectronics},
	{"croma", domain.CategoryElectronics},
	{"paytm", domain.CategoryOther},
	{"phonepe", domain.CategoryOther},
	{"razorpay", domain.CategoryOther},
	{"cred.club", domain.CategoryOther},
}

type subjectCategory struct {
	keyword  string
	category domain.SpendCategory
}

// subjectCategories maps subject keywords to categories when the sender
// is unknown.
var subjectCategories = []subjectCategory{
	{"food", domain.CategoryFoodDining},
	{"restaurant", domain.CategoryFoodDining},
	{"flight", domain.CategoryTravel},
	{"hotel", domain.CategoryTravel},
	{"train", domain.CategoryTravel},
	{"cab", domain.CategoryTravel},
	{"movie", domain.CategoryEntertainment},
	{"ticket", domain.CategoryEntertainment},
	{"electricity", domain.CategoryUtilities},
	{"broadband", domain.CategoryUtilities},
	{"recharge", domain.CategoryUtilities},
	{"water charges", domain.CategoryUtilities},
	{"laptop", domain.CategoryElectronics},
	{"phone", domain.CategoryElectronics},
	{"appliance", domain.CategoryElectronics},
}

// Classifier assigns record kinds and spending categories.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify decides the record kind for one message. Deterministic: the
// same inputs always produce the same kind.
func (c *Classifier) Classify(subject, body, sender string) domain.RecordKind {
	text := strings.ToLower(subject + " " + body)
	senderLower := strings.ToLower(sender)

	if containsAny(text, refundKeywords) {
		return domain.KindRefund
	}
	if containsAny(text, warrantyKeywords) {
		return domain.KindWarranty
	}
	if containsAny(text, purchaseKeywords) || isKnownVendor(senderLower) {
		return domain.KindPurchase
	}
	return domain.KindOther
}

// Category resolves the spending bucket for a purchase or document
// record. Sender lookup wins over subject keywords; "Other" when
// nothing matches.
func (c *Classifier) Category(subject, sender string) domain.SpendCategory {
	senderLower := strings.ToLower(sender)
	for _, vc := range vendorCategories {
		if strings.Contains(senderLower, vc.vendor) {
			return vc.category
		}
	}

	subjectLower := strings.ToLower(subject)
	for _, sc := range subjectCategories {
		if strings.Contains(subjectLower, sc.keyword) {
			return sc.category
		}
	}
	return domain.CategoryOther
}

func isKnownVendor(sender string) bool {
	for _, vc := range vendorCategories {
		if strings.Contains(sender, vc.vendor) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
