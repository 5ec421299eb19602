package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"spendscan/core/domain"
	"spendscan/core/port/in"
	"spendscan/core/port/out"
	"spendscan/core/service/invoice"
	"spendscan/core/service/retrieval"
)

type fakeMailbox struct {
	searchResults []string
	messages      map[string]*domain.RawMessage
	attachments   map[string][]byte
}

func (f *fakeMailbox) Search(_ context.Context, _ string, _ int64) ([]string, error) {
	return f.searchResults, nil
}

func (f *fakeMailbox) GetFull(_ context.Context, id string) (*domain.RawMessage, error) {
	if msg, ok := f.messages[id]; ok {
		return msg, nil
	}
	return nil, out.NewProviderError("gmail", out.ProviderErrNotFound, "missing", nil, false)
}

func (f *fakeMailbox) GetAttachment(_ context.Context, messageID, attachmentID string) ([]byte, error) {
	if data, ok := f.attachments[messageID+"/"+attachmentID]; ok {
		return data, nil
	}
	return nil, errors.New("no attachment")
}

var _ out.MailboxPort = (*fakeMailbox)(nil)

func textMessage(id, subject, from, body string) *domain.RawMessage {
	return &domain.RawMessage{
		ID: id,
		Headers: map[string]string{
			"Subject": subject,
			"From":    from,
			"Date":    "Mon, 15 Jan 2024 10:30:00 +0530",
		},
		Payload: &domain.MessagePart{MimeType: "text/plain", Body: []byte(body)},
	}
}

func newTestService(mb *fakeMailbox) *Service {
	return NewService(Deps{
		Retriever: retrieval.NewRetriever(mb, true, retrieval.WithBatchDelay(0)),
		Parser:    invoice.NewParser(nil, nil),
		Mailbox:   mb,
	})
}

func TestExtractEndToEnd(t *testing.T) {
	refundMsg := textMessage("m-refund",
		"Your refund has been processed",
		"support@flipkart.com",
		"We have refunded ₹799 to your account.")

	purchaseMsg := textMessage("m-purchase",
		"Invoice for your order",
		"orders@amazon.in",
		"Order total: ₹2,499.00. Invoice attached.")
	purchaseMsg.Payload = &domain.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*domain.MessagePart{
			{MimeType: "text/plain", Body: []byte("Order total: ₹2,499.00. Invoice attached.")},
			{MimeType: "application/pdf", Filename: "invoice.pdf", AttachmentID: "att-1"},
		},
	}

	newsletterMsg := textMessage("m-news",
		"This month in open source",
		"digest@osnews.io",
		"A roundup of interesting projects.")

	mb := &fakeMailbox{
		searchResults: []string{"m-refund", "m-purchase", "m-news"},
		messages: map[string]*domain.RawMessage{
			"m-refund":   refundMsg,
			"m-purchase": purchaseMsg,
			"m-news":     newsletterMsg,
		},
	}
	svc := newTestService(mb)

	result, err := svc.Extract(context.Background(), in.ExtractRequest{Kind: domain.KindPurchase})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scanned != 3 {
		t.Errorf("scanned = %d, want 3", result.Scanned)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2 (refund + purchase)", len(result.Records))
	}

	kinds := map[domain.RecordKind]int{}
	for _, rec := range result.Records {
		kinds[rec.Kind]++
	}
	if kinds[domain.KindRefund] != 1 || kinds[domain.KindPurchase] != 1 {
		t.Errorf("kind distribution = %v", kinds)
	}

	if len(result.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(result.Documents))
	}
	if result.Documents[0].Type != domain.DocumentInvoice || !result.Documents[0].IsPDF {
		t.Errorf("document descriptor = %+v", result.Documents[0])
	}

	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (newsletter)", result.Skipped)
	}

	for _, rec := range result.Records {
		if rec.Kind == domain.KindPurchase {
			if rec.Amount != 2499 {
				t.Errorf("purchase amount = %v, want 2499", rec.Amount)
			}
			if rec.Category != domain.CategoryShopping {
				t.Errorf("purchase category = %v", rec.Category)
			}
		}
	}
}

func TestExtractOneFetchFailureAmongFive(t *testing.T) {
	messages := map[string]*domain.RawMessage{}
	ids := []string{"m1", "m2", "m3", "m4", "m5"}
	for _, id := range ids {
		if id == "m3" {
			continue // fetch for m3 fails
		}
		messages[id] = textMessage(id, "Payment received", "orders@shop.in", "Paid ₹450")
	}
	mb := &fakeMailbox{searchResults: ids, messages: messages}
	svc := newTestService(mb)

	result, err := svc.Extract(context.Background(), in.ExtractRequest{Kind: domain.KindPurchase})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scanned != 4 {
		t.Errorf("scanned = %d, want 4", result.Scanned)
	}
	if len(result.Records) != 4 {
		t.Errorf("records = %d, want 4", len(result.Records))
	}
}

type fakeInvoiceRepo struct {
	saved []*domain.ParsedInvoice
}

func (f *fakeInvoiceRepo) SaveInvoice(_ context.Context, inv *domain.ParsedInvoice) (uuid.UUID, error) {
	f.saved = append(f.saved, inv)
	return uuid.New(), nil
}

func (f *fakeInvoiceRepo) ListInvoices(_ context.Context, _, _ int) ([]*domain.ParsedInvoice, error) {
	return f.saved, nil
}

var _ out.InvoiceRepository = (*fakeInvoiceRepo)(nil)

type fakeModel struct{ response string }

func (f *fakeModel) Generate(_ context.Context, _ string, _ *out.InlineDocument) (string, error) {
	return f.response, nil
}

func TestExtractParsesDocuments(t *testing.T) {
	msg := textMessage("m1", "Invoice for order", "orders@shop.in", "see attached")
	msg.Payload = &domain.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*domain.MessagePart{
			{MimeType: "text/plain", Body: []byte("Invoice Total: ₹900")},
			{MimeType: "application/pdf", Filename: "invoice.pdf", AttachmentID: "att-1"},
		},
	}
	mb := &fakeMailbox{
		searchResults: []string{"m1"},
		messages:      map[string]*domain.RawMessage{"m1": msg},
		attachments:   map[string][]byte{"m1/att-1": []byte("%PDF-1.4")},
	}

	model := &fakeModel{response: `{"vendor":"Shop","total":900,"currency":"INR","confidence":90}`}
	svc := NewService(Deps{
		Retriever: retrieval.NewRetriever(mb, true, retrieval.WithBatchDelay(0)),
		Parser: invoice.NewParser(func() (out.InvoiceModel, error) {
			return model, nil
		}, nil),
		Mailbox: mb,
	})

	result, err := svc.Extract(context.Background(), in.ExtractRequest{
		Kind:           domain.KindPurchase,
		ParseDocuments: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Invoices) != 1 {
		t.Fatalf("invoices = %d, want 1", len(result.Invoices))
	}
	inv := result.Invoices[0]
	if inv.Total != 900 || inv.Vendor != "Shop" {
		t.Errorf("invoice = %+v", inv)
	}
	if inv.SourceMessageID != "m1" || inv.AttachmentID != "att-1" {
		t.Errorf("invoice linkage = %q/%q", inv.SourceMessageID, inv.AttachmentID)
	}
}

func TestExtractPersistsInvoices(t *testing.T) {
	msg := textMessage("m1", "Invoice for order", "orders@shop.in", "see attached")
	msg.Payload = &domain.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*domain.MessagePart{
			{MimeType: "text/plain", Body: []byte("Invoice Total: ₹1,250")},
			{MimeType: "application/pdf", Filename: "invoice.pdf", AttachmentID: "att-1"},
		},
	}
	mb := &fakeMailbox{
		searchResults: []string{"m1"},
		messages:      map[string]*domain.RawMessage{"m1": msg},
		attachments:   map[string][]byte{"m1/att-1": []byte("%PDF-1.4")},
	}

	repo := &fakeInvoiceRepo{}
	model := &fakeModel{response: `{"vendor":"Shop","total":1250,"currency":"INR","confidence":90}`}
	svc := NewService(Deps{
		Retriever: retrieval.NewRetriever(mb, true, retrieval.WithBatchDelay(0)),
		Parser: invoice.NewParser(func() (out.InvoiceModel, error) {
			return model, nil
		}, nil),
		Mailbox:  mb,
		Invoices: repo,
	})

	result, err := svc.Extract(context.Background(), in.ExtractRequest{
		Kind:           domain.KindPurchase,
		ParseDocuments: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Invoices) != 1 {
		t.Fatalf("invoices = %d, want 1", len(result.Invoices))
	}

	if len(repo.saved) != 1 {
		t.Fatalf("saved invoices = %d, want 1", len(repo.saved))
	}
	saved := repo.saved[0]
	if saved.Total != 1250 || saved.Vendor != "Shop" {
		t.Errorf("saved invoice = %+v", saved)
	}
	if saved.SourceMessageID != "m1" || saved.AttachmentID != "att-1" {
		t.Errorf("saved linkage = %q/%q", saved.SourceMessageID, saved.AttachmentID)
	}
}
