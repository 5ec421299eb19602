package invoice

import (
	"context"
	"errors"
	"testing"

	"spendscan/core/port/out"
)

type fakeModel struct {
	response string
	err      error
	calls    int
}

func (f *fakeModel) Generate(_ context.Context, _ string, _ *out.InlineDocument) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func modelFactory(m *fakeModel) out.InvoiceModelFactory {
	return func() (out.InvoiceModel, error) { return m, nil }
}

func TestParseTextModelTier(t *testing.T) {
	model := &fakeModel{response: "Here you go:\n" + `{"vendor":"Acme","total":450.5,"currency":"INR","date":"2024-01-15","confidence":92}`}
	p := NewParser(modelFactory(model), nil)

	inv := p.ParseText(context.Background(), "some receipt text", "mail.txt", "orders@acme.in")

	if inv.Vendor != "Acme" || inv.Total != 450.5 {
		t.Errorf("model output not used: %+v", inv)
	}
	if inv.Date != "2024-01-15" {
		t.Errorf("date = %q", inv.Date)
	}
	if inv.Confidence != 92 {
		t.Errorf("confidence = %d", inv.Confidence)
	}
	if !inv.Valid {
		t.Error("model-tier invoice should be valid")
	}
	if inv.Filename != "mail.txt" {
		t.Errorf("filename = %q", inv.Filename)
	}
}

func TestParseTextModelFailureFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"call error", &fakeModel{err: errors.New("rate limited")}},
		{"no json in response", &fakeModel{response: "I cannot help with that."}},
		{"malformed json", &fakeModel{response: `{"vendor": }`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(modelFactory(tt.model), nil)
			inv := p.ParseText(context.Background(), "Order confirmed, Total: ₹450", "", "orders@shop.in")

			if inv == nil {
				t.Fatal("fallback must always produce a record")
			}
			if inv.Total != 450 {
				t.Errorf("fallback total = %v, want 450", inv.Total)
			}
		})
	}
}

func TestParseTextNoFactoryUsesFallback(t *testing.T) {
	p := NewParser(nil, nil)
	inv := p.ParseText(context.Background(), "Payment of ₹300 received", "", "x@y.in")

	if inv.Total != 300 {
		t.Errorf("total = %v, want 300", inv.Total)
	}
	if inv.Currency == "" || inv.Vendor == "" {
		t.Errorf("sanitizer did not run: %+v", inv)
	}
}

func TestParserMemoizesClient(t *testing.T) {
	created := 0
	model := &fakeModel{response: `{"vendor":"A","total":10}`}
	p := NewParser(func() (out.InvoiceModel, error) {
		created++
		return model, nil
	}, nil)

	for i := 0; i < 3; i++ {
		p.ParseText(context.Background(), "invoice text", "", "")
	}
	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}
	if model.calls != 3 {
		t.Errorf("model calls = %d, want 3", model.calls)
	}
}

func TestParseDocumentBinaryNoModel(t *testing.T) {
	p := NewParser(nil, nil)
	inv := p.ParseDocument(context.Background(), []byte{0x25, 0x50, 0x44, 0x46}, "scan.pdf", "application/pdf", "x@y.in")

	if inv.Valid {
		t.Error("binary document with no model must be explicitly invalid")
	}
	if inv.Filename != "scan.pdf" {
		t.Errorf("filename = %q", inv.Filename)
	}
}

func TestParseDocumentTextualFallback(t *testing.T) {
	p := NewParser(nil, nil)
	inv := p.ParseDocument(context.Background(), []byte("Invoice Total: ₹900"), "body.txt", "text/plain", "orders@shop.in")

	if !inv.Valid || inv.Total != 900 {
		t.Errorf("textual fallback failed: %+v", inv)
	}
}

func TestParseTextModelOutputSanitized(t *testing.T) {
	model := &fakeModel{response: `{"vendor":"","total":-20,"date":"soon","items":[{"name":"x","quantity":0}]}`}
	p := NewParser(modelFactory(model), nil)

	inv := p.ParseText(context.Background(), "text", "", "")

	if inv.Vendor != "Unknown Merchant" {
		t.Errorf("vendor = %q", inv.Vendor)
	}
	if inv.Total != 0 {
		t.Errorf("total = %v", inv.Total)
	}
	if inv.Date != "" {
		t.Errorf("date = %q", inv.Date)
	}
	if inv.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d", inv.Items[0].Quantity)
	}
}
