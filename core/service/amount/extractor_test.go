package amount

import "testing"

func TestExtractNoneSentinel(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no numbers", "thanks for writing in, see you soon"},
		{"number too small", "you have 3 new messages"},
		{"number too large", "call us on 9876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := Extract(tt.text); ok {
				t.Errorf("expected none, got %+v", got)
			}
		})
	}
}

func TestExtractMaximumWins(t *testing.T) {
	got, ok := Extract("Subtotal ₹100, Total ₹450")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Value != 450 {
		t.Errorf("expected 450, got %v", got.Value)
	}
}

func TestExtractClasses(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value float64
		class PatternClass
	}{
		{"contextual label", "Amount Paid: 1,234.50 via UPI", 1234.50, ClassContextual},
		{"bare symbol before", "you spent ₹775 today", 775, ClassCurrency},
		{"bare symbol after", "750 ₹ charged", 750, ClassCurrency},
		{"rupee word suffix", "pay 500 rupees now", 500, ClassSuffix},
		{"indian slash format", "fee 774/- received", 774, ClassSuffix},
		{"comma stripping", "Total: ₹12,345", 12345, ClassContextual},
		{"bare number fallback", "transfer 4500 to complete", 4500, ClassBareNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if !ok {
				t.Fatal("expected a match")
			}
			if got.Value != tt.value {
				t.Errorf("value = %v, want %v", got.Value, tt.value)
			}
			if got.Class != tt.class {
				t.Errorf("class = %v, want %v", got.Class, tt.class)
			}
		})
	}
}

func TestExtractBareNumberIsLastResort(t *testing.T) {
	// 2024 is a bare number in range, but the marked ₹450 must win.
	got, ok := Extract("Total: ₹450 paid on 15/01/2024")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Value != 450 {
		t.Errorf("bare number outranked a marked amount: got %v", got.Value)
	}
	if got.Class != ClassContextual {
		t.Errorf("class = %v, want %v", got.Class, ClassContextual)
	}
}

func TestExtractInRange(t *testing.T) {
	// 98000 exceeds the tighter cap, 450 stays in.
	got, ok := ExtractInRange("account 98000, Total ₹450", 10, 50000)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Value != 450 {
		t.Errorf("expected 450, got %v", got.Value)
	}
}
