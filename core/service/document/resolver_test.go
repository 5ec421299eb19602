package document

import (
	"testing"

	"spendscan/core/domain"
)

func contentWith(subject string, atts ...domain.AttachmentRef) *domain.ParsedContent {
	return &domain.ParsedContent{MessageID: "m1", Subject: subject, Attachments: atts}
}

func TestResolvePDFBySubjectPriority(t *testing.T) {
	pdf := domain.AttachmentRef{AttachmentID: "a1", Filename: "doc.pdf", MimeType: "application/pdf"}

	tests := []struct {
		name    string
		subject string
		want    domain.DocumentType
	}{
		{"invoice beats receipt", "Invoice and receipt for your order", domain.DocumentInvoice},
		{"receipt beats order", "Receipt for order 123", domain.DocumentReceipt},
		{"order alone", "Your order details", domain.DocumentOrder},
		{"no keywords", "Documents attached", domain.DocumentPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := Resolve(contentWith(tt.subject, pdf))
			if len(docs) != 1 {
				t.Fatalf("expected 1 descriptor, got %d", len(docs))
			}
			if docs[0].Type != tt.want {
				t.Errorf("type = %v, want %v", docs[0].Type, tt.want)
			}
			if !docs[0].IsPDF {
				t.Error("expected IsPDF")
			}
			if docs[0].IsInvoice != (tt.want == domain.DocumentInvoice) {
				t.Errorf("IsInvoice = %v for type %v", docs[0].IsInvoice, tt.want)
			}
		})
	}
}

func TestResolvePDFByFilename(t *testing.T) {
	att := domain.AttachmentRef{AttachmentID: "a1", Filename: "invoice_march.PDF", MimeType: "application/octet-stream"}
	docs := Resolve(contentWith("see attached", att))
	if len(docs) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(docs))
	}
	if docs[0].Type != domain.DocumentInvoice || !docs[0].IsPDF {
		t.Errorf("filename classification failed: %+v", docs[0])
	}
}

func TestResolveImageAsReceipt(t *testing.T) {
	img := domain.AttachmentRef{AttachmentID: "a1", Filename: "photo.jpg", MimeType: "image/jpeg"}
	docs := Resolve(contentWith("dinner", img))
	if len(docs) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(docs))
	}
	if docs[0].Type != domain.DocumentReceipt || docs[0].IsPDF {
		t.Errorf("image should be a possible receipt: %+v", docs[0])
	}
}

func TestResolveIgnoresOtherAttachments(t *testing.T) {
	other := domain.AttachmentRef{AttachmentID: "a1", Filename: "data.csv", MimeType: "text/csv"}
	if docs := Resolve(contentWith("report", other)); len(docs) != 0 {
		t.Errorf("expected no descriptors, got %+v", docs)
	}
}
