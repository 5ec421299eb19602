package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"spendscan/core/domain"
)

// Expiry thresholds in days.
const (
	expiryWarningDays = 30
	expiryUrgentDays  = 7
)

var warrantyPeriodRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(year|yr|month|mo|day)s?\s*(?:manufacturer\s+|seller\s+|extended\s+)?warranty`),
	regexp.MustCompile(`(?i)warranty(?:\s+period)?[:\s]*(\d+)\s*(year|yr|month|mo|day)s?`),
	regexp.MustCompile(`(?i)(\d+)\s*(year|yr|month|mo|day)s?\s*coverage`),
	regexp.MustCompile(`(?i)(\d+)\s*(year|yr|month|mo|day)s?\s*guarantee`),
}

var warrantyKeywords = []string{
	"warranty", "guarantee", "coverage", "protection",
}

// PeriodToDays converts a count and unit into days. Years count as 365,
// months as 30.
func PeriodToDays(n int, unit string) int {
	switch strings.ToLower(unit) {
	case "year", "yr":
		return n * 365
	case "month", "mo":
		return n * 30
	case "day", "d":
		return n
	default:
		return 0
	}
}

// FindWarrantyPeriod scans text for a warranty duration and returns it
// in days plus the matched phrase. Zero means none found.
func FindWarrantyPeriod(text string) (int, string) {
	for _, re := range warrantyPeriodRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if days := PeriodToDays(n, m[2]); days > 0 {
			return days, strings.TrimSpace(m[0])
		}
	}
	return 0, ""
}

// WarrantyEndDate computes purchase date + period. Calendar-day
// arithmetic: 2024-01-10 plus 365 days lands on 2025-01-09.
func WarrantyEndDate(purchaseDate string, periodDays int) string {
	t, err := time.Parse("2006-01-02", purchaseDate)
	if err != nil || periodDays <= 0 {
		return ""
	}
	return t.AddDate(0, 0, periodDays).Format("2006-01-02")
}

// AnalyzeWarranty builds the warranty report for a document. now is
// injected so expiry math is testable.
func AnalyzeWarranty(text, purchaseDate string, now time.Time) *domain.WarrantyAnalysis {
	days, phrase := FindWarrantyPeriod(text)
	if days == 0 {
		return analyzeNotFound(text)
	}

	analysis := &domain.WarrantyAnalysis{
		Found:      true,
		PeriodDays: days,
		Risk:       domain.WarrantyRiskLow,
		Confidence: 80,
		KeyFindings: []string{
			fmt.Sprintf("Warranty period: %s", phrase),
		},
	}

	endDate := WarrantyEndDate(purchaseDate, days)
	if endDate == "" {
		analysis.KeyFindings = append(analysis.KeyFindings,
			"No purchase date available, expiry not computed")
		analysis.Recommendations = append(analysis.Recommendations,
			"Confirm the purchase date to track warranty expiry")
		return analysis
	}

	analysis.EndDate = endDate
	end, _ := time.Parse("2006-01-02", endDate)
	remaining := int(end.Sub(now).Hours() / 24)
	analysis.DaysUntilExpiry = remaining
	analysis.KeyFindings = append(analysis.KeyFindings,
		fmt.Sprintf("Expiry date: %s", endDate))

	switch {
	case remaining <= 0:
		analysis.Risk = domain.WarrantyRiskHigh
		analysis.ExpiryWarning = true
		analysis.KeyFindings = append(analysis.KeyFindings, "Warranty has expired")
		analysis.Recommendations = append(analysis.Recommendations,
			"Warranty has expired, check if an extended warranty is available")
	case remaining <= expiryUrgentDays:
		analysis.Risk = domain.WarrantyRiskHigh
		analysis.ExpiryWarning = true
		analysis.KeyFindings = append(analysis.KeyFindings,
			fmt.Sprintf("Days remaining: %d", remaining))
		analysis.Recommendations = append(analysis.Recommendations,
			"Warranty expires within a week, file any pending claims now")
	case remaining <= expiryWarningDays:
		analysis.Risk = domain.WarrantyRiskMedium
		analysis.ExpiryWarning = true
		analysis.KeyFindings = append(analysis.KeyFindings,
			fmt.Sprintf("Days remaining: %d", remaining))
		analysis.Recommendations = append(analysis.Recommendations,
			"Warranty expires soon, consider an extended warranty")
	default:
		analysis.KeyFindings = append(analysis.KeyFindings,
			fmt.Sprintf("Days remaining: %d", remaining))
		analysis.Recommendations = append(analysis.Recommendations,
			"Warranty is active, keep the documentation safe")
	}
	return analysis
}

func analyzeNotFound(text string) *domain.WarrantyAnalysis {
	analysis := &domain.WarrantyAnalysis{
		Found: false,
		Risk:  domain.WarrantyRiskMedium,
		KeyFindings: []string{
			"No warranty information found in document",
		},
		Recommendations: []string{
			"Contact the vendor for warranty details",
		},
	}
	if containsAnyFold(text, warrantyKeywords) {
		analysis.Confidence = 30
		analysis.KeyFindings = append(analysis.KeyFindings,
			"Warranty keywords present but no structured period extracted")
	} else {
		analysis.Confidence = 10
	}
	return analysis
}
