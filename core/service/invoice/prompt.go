package invoice

import "strings"

// extractionSchema enumerates the exact field names and types the model
// must return. Field names match the ParsedInvoice json tags so the
// response decodes directly.
const extractionSchema = `{
  "vendor": "string",
  "invoiceNumber": "string",
  "orderNumber": "string",
  "poNumber": "string",
  "date": "YYYY-MM-DD string",
  "dueDate": "YYYY-MM-DD string",
  "total": 0.0,
  "subtotal": 0.0,
  "taxes": 0.0,
  "shipping": 0.0,
  "discount": 0.0,
  "currency": "ISO 4217 string",
  "items": [{"name": "string", "quantity": 1, "unitPrice": 0.0, "totalPrice": 0.0, "sku": "string"}],
  "billingAddress": "string",
  "shippingAddress": "string",
  "paymentMethod": "string",
  "notes": "string",
  "warrantyPeriodDays": 0,
  "confidence": 0
}`

// BuildPrompt renders the extraction instruction. text may be empty
// when the document travels inline instead.
func BuildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract structured invoice data from the document below.\n")
	b.WriteString("Respond with ONLY a single JSON object, no prose, matching exactly this schema:\n")
	b.WriteString(extractionSchema)
	b.WriteString("\nUse empty strings for unknown text fields and 0 for unknown numbers. ")
	b.WriteString("confidence is 0-100 and reflects how certain you are about the extraction overall.\n")
	if text != "" {
		b.WriteString("\nDocument text:\n")
		b.WriteString(text)
	}
	return b.String()
}

// ExtractJSONObject returns the first balanced {...} span in s. Models
// wrap their JSON in prose or code fences often enough that a plain
// unmarshal of the whole response is not reliable.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
