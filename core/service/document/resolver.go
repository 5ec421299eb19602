package document

import (
	"strings"

	"spendscan/core/domain"
)

// Resolve picks the attachments worth deeper parsing and tags each with
// a document type. PDFs are classified by subject keyword priority
// (invoice > receipt > order > generic); images pass through as
// possible receipts.
func Resolve(content *domain.ParsedContent) []domain.DocumentDescriptor {
	var docs []domain.DocumentDescriptor
	subjectLower := strings.ToLower(content.Subject)

	for _, att := range content.Attachments {
		switch {
		case isPDF(att):
			docType := classifySubject(subjectLower, att.Filename)
			docs = append(docs, domain.DocumentDescriptor{
				MessageID:  content.MessageID,
				Attachment: att,
				Type:       docType,
				IsPDF:      true,
				IsInvoice:  docType == domain.DocumentInvoice,
			})
		case isImage(att):
			docs = append(docs, domain.DocumentDescriptor{
				MessageID:  content.MessageID,
				Attachment: att,
				Type:       domain.DocumentReceipt,
			})
		}
	}
	return docs
}

func isPDF(att domain.AttachmentRef) bool {
	if att.MimeType == "application/pdf" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(att.Filename), ".pdf")
}

func isImage(att domain.AttachmentRef) bool {
	return strings.HasPrefix(att.MimeType, "image/")
}

// classifySubject applies the keyword priority. The filename is
// consulted after the subject, so "invoice.pdf" on a keyword-free
// subject still classifies.
func classifySubject(subjectLower, filename string) domain.DocumentType {
	filenameLower := strings.ToLower(filename)

	for _, probe := range []struct {
		keyword string
		docType domain.DocumentType
	}{
		{"invoice", domain.DocumentInvoice},
		{"receipt", domain.DocumentReceipt},
		{"order", domain.DocumentOrder},
		{"bill", domain.DocumentInvoice},
	} {
		if strings.Contains(subjectLower, probe.keyword) || strings.Contains(filenameLower, probe.keyword) {
			return probe.docType
		}
	}
	return domain.DocumentPDF
}
