package domain

import "time"

// RecordKind is the classification a message resolves to.
type RecordKind string

const (
	KindPurchase RecordKind = "purchase"
	KindRefund   RecordKind = "refund"
	KindWarranty RecordKind = "warranty"

	// KindOther marks messages that match no kind. They are discarded,
	// never persisted.
	KindOther RecordKind = "other"
)

// SearchWindow describes one extraction request: how far back to look and
// which kind of record the caller is after. Immutable once built.
type SearchWindow struct {
	Start time.Time
	End   time.Time
	Kind  RecordKind // empty means "any document"
}

// NewSearchWindow builds a window covering the last lookbackDays days.
func NewSearchWindow(lookbackDays int, kind RecordKind) SearchWindow {
	now := time.Now()
	return SearchWindow{
		Start: now.AddDate(0, 0, -lookbackDays),
		End:   now,
		Kind:  kind,
	}
}

// Days returns the window length in whole days, never less than 1.
func (w SearchWindow) Days() int {
	d := int(w.End.Sub(w.Start).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// RawMessage is the provider-opaque payload of one mail message. It is
// fetched once per extraction call and never mutated.
type RawMessage struct {
	ID       string
	ThreadID string
	Headers  map[string]string
	Payload  *MessagePart
	Snippet  string
}

// MessagePart is one node of the (possibly nested) MIME tree.
type MessagePart struct {
	MimeType     string
	Filename     string
	AttachmentID string
	Body         []byte
	SizeBytes    int64
	Parts        []*MessagePart
}

// ParsedContent is the normalized view of a RawMessage. It keeps no
// references back into the raw payload.
type ParsedContent struct {
	MessageID   string
	Subject     string
	Sender      string
	Date        time.Time
	PlainText   string
	Attachments []AttachmentRef
}

// AttachmentRef is a lightweight descriptor. Attachment bytes are fetched
// lazily through the mailbox port and never cached beyond one parse call.
type AttachmentRef struct {
	AttachmentID string
	Filename     string
	MimeType     string
	SizeBytes    int64
}

// DocumentType tags an attachment worth deeper parsing.
type DocumentType string

const (
	DocumentInvoice DocumentType = "invoice"
	DocumentReceipt DocumentType = "receipt"
	DocumentOrder   DocumentType = "order"
	DocumentPDF     DocumentType = "pdf"
	DocumentGeneric DocumentType = "document"
)

// DocumentDescriptor marks an attachment as parse-worthy.
type DocumentDescriptor struct {
	MessageID  string
	Attachment AttachmentRef
	Type       DocumentType
	IsPDF      bool
	IsInvoice  bool
}
