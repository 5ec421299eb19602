package invoice

import (
	"testing"
	"time"

	"spendscan/core/domain"
)

func TestPeriodToDays(t *testing.T) {
	tests := []struct {
		n    int
		unit string
		want int
	}{
		{1, "year", 365},
		{2, "yr", 730},
		{12, "month", 360},
		{6, "mo", 180},
		{90, "day", 90},
		{1, "fortnight", 0},
	}
	for _, tt := range tests {
		if got := PeriodToDays(tt.n, tt.unit); got != tt.want {
			t.Errorf("PeriodToDays(%d, %q) = %d, want %d", tt.n, tt.unit, got, tt.want)
		}
	}
}

func TestFindWarrantyPeriod(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"prefix form", "comes with 2 year warranty", 730},
		{"label form", "Warranty period: 6 months", 180},
		{"coverage form", "enjoy 1 year coverage on parts", 365},
		{"none", "no strings attached", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, _ := FindWarrantyPeriod(tt.text)
			if days != tt.want {
				t.Errorf("days = %d, want %d", days, tt.want)
			}
		})
	}
}

func TestWarrantyEndDate(t *testing.T) {
	if got := WarrantyEndDate("2024-01-10", 365); got != "2025-01-09" {
		t.Errorf("leap year end date = %q, want 2025-01-09", got)
	}
	if got := WarrantyEndDate("garbage", 365); got != "" {
		t.Errorf("invalid date should yield empty, got %q", got)
	}
}

func TestAnalyzeWarrantyActive(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := AnalyzeWarranty("1 year warranty included", "2024-01-10", now)

	if !a.Found {
		t.Fatal("expected warranty found")
	}
	if a.PeriodDays != 365 {
		t.Errorf("periodDays = %d", a.PeriodDays)
	}
	if a.EndDate != "2025-01-09" {
		t.Errorf("endDate = %q", a.EndDate)
	}
	if a.ExpiryWarning {
		t.Error("expiry warning too early")
	}
	if a.Risk != domain.WarrantyRiskLow {
		t.Errorf("risk = %v, want low", a.Risk)
	}
}

func TestAnalyzeWarrantyExpiringSoon(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	a := AnalyzeWarranty("1 year warranty", "2024-01-10", now)

	// 2025-01-09 is 20 days out: warning, medium risk.
	if !a.ExpiryWarning {
		t.Error("expected expiry warning within 30 days")
	}
	if a.Risk != domain.WarrantyRiskMedium {
		t.Errorf("risk = %v, want medium", a.Risk)
	}
}

func TestAnalyzeWarrantyExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := AnalyzeWarranty("1 year warranty", "2024-01-10", now)

	if a.Risk != domain.WarrantyRiskHigh || !a.ExpiryWarning {
		t.Errorf("expected high risk expired warranty, got %+v", a)
	}
	if a.DaysUntilExpiry > 0 {
		t.Errorf("daysUntilExpiry = %d, want <= 0", a.DaysUntilExpiry)
	}
}

func TestAnalyzeWarrantyNotFound(t *testing.T) {
	now := time.Now()

	a := AnalyzeWarranty("thanks for shopping", "2024-01-10", now)
	if a.Found {
		t.Fatal("expected not found")
	}
	if a.Confidence != 10 {
		t.Errorf("confidence = %d, want 10", a.Confidence)
	}

	a = AnalyzeWarranty("your warranty details will follow", "2024-01-10", now)
	if a.Found {
		t.Fatal("keywords alone are not a period")
	}
	if a.Confidence != 30 {
		t.Errorf("confidence = %d, want 30 when keywords present", a.Confidence)
	}
}
