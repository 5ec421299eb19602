package invoice

import (
	"strings"
	"testing"
)

func TestBuildPromptContainsSchemaAndText(t *testing.T) {
	p := BuildPrompt("Total ₹450")
	for _, field := range []string{"vendor", "invoiceNumber", "total", "warrantyPeriodDays", "confidence"} {
		if !strings.Contains(p, field) {
			t.Errorf("prompt missing schema field %q", field)
		}
	}
	if !strings.Contains(p, "Total ₹450") {
		t.Error("prompt missing document text")
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around", "Sure! {\"a\":1} Hope that helps.", `{"a":1}`, true},
		{"nested", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"\"}"}`, `{"a":"\"}"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no object", "nothing here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
