package amount

import (
	"regexp"
	"strconv"
	"strings"
)

// PatternClass tags which kind of pattern produced a candidate.
type PatternClass string

const (
	ClassContextual PatternClass = "contextual"
	ClassCurrency   PatternClass = "currency"
	ClassSuffix     PatternClass = "suffix"
	ClassBareNumber PatternClass = "bare_number"
)

// ExtractedAmount is a single candidate value with its provenance.
type ExtractedAmount struct {
	Value float64
	Class PatternClass
}

// Plausibility bounds. Values outside are rejected in every class so
// phone numbers and long ids never win.
const (
	minPlausible = 10
	maxPlausible = 1_000_000
)

const numberGroup = `(\d+(?:,\d{3})*(?:\.\d{2})?)`

// classedPattern binds one regex to its class. The list is evaluated
// exhaustively; priority lives in the max-value rule, not match order.
type classedPattern struct {
	re    *regexp.Regexp
	class PatternClass
}

var patterns = []classedPattern{
	// Contextual labels adjacent to an optional currency marker.
	{regexp.MustCompile(`(?i)(?:grand\s+total|amount\s+paid|order\s+total|booking\s+charge|total|amount|paid|price|cost|value|bill|invoice|order|payment|charges|fees|receipt)[:\s]*(?:₹|rs\.?|inr)?\s*` + numberGroup), ClassContextual},
	{regexp.MustCompile(`(?i)(?:payment|charges)\s+of\s+(?:₹|rs\.?|inr)\s*` + numberGroup), ClassContextual},

	// Bare currency marker adjacent to the number, either side.
	{regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*` + numberGroup), ClassCurrency},
	{regexp.MustCompile(numberGroup + `\s*₹`), ClassCurrency},

	// Currency word or abbreviation after the number.
	{regexp.MustCompile(`(?i)` + numberGroup + `\s*(?:rupees?|inr|rs\.?|/-|only)`), ClassSuffix},
}

var bareNumberRe = regexp.MustCompile(`\b` + numberGroup + `\b`)

// Extract returns the best-guess amount in text, or ok=false when
// nothing qualifies. Candidates from the contextual, currency and
// suffix classes are gathered exhaustively and the maximum wins, since
// the total is assumed to be the largest figure on a receipt. Bare
// numbers are a last resort, consulted only when no marked candidate
// exists at all.
func Extract(text string) (ExtractedAmount, bool) {
	return ExtractInRange(text, minPlausible, maxPlausible)
}

// ExtractInRange is Extract with caller-supplied plausibility bounds,
// for contexts tighter than the defaults. Bare numbers never compete
// with marked candidates: a year or order id in range would otherwise
// outrank the real total.
func ExtractInRange(text string, min, max float64) (ExtractedAmount, bool) {
	best, found := maxCandidate(text, patterns, min, max)
	if found {
		return best, true
	}

	var bare ExtractedAmount
	for _, m := range bareNumberRe.FindAllStringSubmatch(text, -1) {
		v, ok := parseNumber(m[1], min, max)
		if !ok {
			continue
		}
		if !found || v > bare.Value {
			bare = ExtractedAmount{Value: v, Class: ClassBareNumber}
			found = true
		}
	}
	return bare, found
}

func maxCandidate(text string, pats []classedPattern, min, max float64) (ExtractedAmount, bool) {
	var best ExtractedAmount
	found := false
	for _, p := range pats {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			v, ok := parseNumber(m[1], min, max)
			if !ok {
				continue
			}
			if !found || v > best.Value {
				best = ExtractedAmount{Value: v, Class: p.class}
				found = true
			}
		}
	}
	return best, found
}

// parseNumber strips thousands separators and applies the bounds.
// Unparseable matches are skipped silently.
func parseNumber(s string, min, max float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if v < min || v > max {
		return 0, false
	}
	return v, true
}
