package content

import (
	"errors"
	"html"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"spendscan/core/domain"
)

var (
	styleBlockRe = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ErrNoPayload marks a message with nothing to parse.
var ErrNoPayload = errors.New("message has no payload")

// Parse normalizes one raw message. Header lookup is by exact name,
// missing headers become empty strings. A plain-text body is preferred;
// HTML is stripped only when no text part exists anywhere in the tree.
func Parse(msg *domain.RawMessage) (*domain.ParsedContent, error) {
	if msg == nil || msg.Payload == nil {
		return nil, ErrNoPayload
	}

	parsed := &domain.ParsedContent{
		MessageID: msg.ID,
		Subject:   msg.Headers["Subject"],
		Sender:    msg.Headers["From"],
	}
	if raw := msg.Headers["Date"]; raw != "" {
		if t, err := mail.ParseDate(raw); err == nil {
			parsed.Date = t
		}
	}

	parsed.PlainText = extractBody(msg.Payload)
	parsed.Attachments = collectAttachments(msg.Payload)
	return parsed, nil
}

// extractBody walks the MIME tree depth first. Top-level text/plain
// wins; otherwise the first nested text/plain; otherwise the first
// text/html, stripped.
func extractBody(part *domain.MessagePart) string {
	if part.MimeType == "text/plain" && len(part.Body) > 0 {
		return string(part.Body)
	}

	if plain := findPart(part, "text/plain"); plain != nil {
		return string(plain.Body)
	}
	if htmlPart := findPart(part, "text/html"); htmlPart != nil {
		return StripHTML(string(htmlPart.Body))
	}
	return ""
}

// findPart returns the first part of the given mime type with a
// non-empty body, depth first.
func findPart(part *domain.MessagePart, mimeType string) *domain.MessagePart {
	if part.MimeType == mimeType && len(part.Body) > 0 {
		return part
	}
	for _, child := range part.Parts {
		if found := findPart(child, mimeType); found != nil {
			return found
		}
	}
	return nil
}

// collectAttachments flattens every part carrying an attachment id.
func collectAttachments(root *domain.MessagePart) []domain.AttachmentRef {
	var refs []domain.AttachmentRef
	var walk func(part *domain.MessagePart)
	walk = func(part *domain.MessagePart) {
		if part.AttachmentID != "" {
			refs = append(refs, domain.AttachmentRef{
				AttachmentID: part.AttachmentID,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				SizeBytes:    part.SizeBytes,
			})
		}
		for _, child := range part.Parts {
			walk(child)
		}
	}
	walk(root)
	return refs
}

// StripHTML removes tags and collapses whitespace from an HTML body.
func StripHTML(s string) string {
	s = styleBlockRe.ReplaceAllString(s, " ")
	s = scriptRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ParseDateHeader is a lenient date parse for callers holding only the
// header string.
func ParseDateHeader(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
