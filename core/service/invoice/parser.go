package invoice

import (
	"context"
	"errors"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"spendscan/core/domain"
	"spendscan/core/port/out"
	"spendscan/pkg/logger"
)

// Default confidence when the model omits its own estimate.
const modelDefaultConfidence = 60

var errModelDisabled = errors.New("model tier disabled")

// Parser runs the two-tier extraction: model first, deterministic
// fallback on any model problem. Callers never see a model error.
type Parser struct {
	factory  out.InvoiceModelFactory
	fallback *FallbackParser
	log      *logger.Logger

	// The model client is created once, on first use. Construction may
	// touch credentials so it must not happen at startup.
	initOnce sync.Once
	model    out.InvoiceModel
	modelErr error
}

// NewParser builds a parser. factory may be nil, which pins every parse
// to the fallback tier.
func NewParser(factory out.InvoiceModelFactory, fallback *FallbackParser) *Parser {
	if fallback == nil {
		fallback = NewFallbackParser(nil)
	}
	return &Parser{
		factory:  factory,
		fallback: fallback,
		log:      logger.Default().WithField("component", "invoice_parser"),
	}
}

func (p *Parser) client() (out.InvoiceModel, error) {
	if p.factory == nil {
		return nil, errModelDisabled
	}
	p.initOnce.Do(func() {
		p.model, p.modelErr = p.factory()
	})
	return p.model, p.modelErr
}

// ParseText extracts an invoice from free text. sender is the mail From
// header, used by the fallback tier for vendor derivation.
func (p *Parser) ParseText(ctx context.Context, text, filename, sender string) *domain.ParsedInvoice {
	inv, err := p.parseWithModel(ctx, BuildPrompt(text), nil)
	if err != nil {
		if !errors.Is(err, errModelDisabled) {
			p.log.WithError(err).Warn("model tier failed, using fallback")
		}
		inv = p.fallback.Parse(text, filename, sender)
	} else {
		inv.Filename = filename
	}
	Sanitize(inv)
	return inv
}

// ParseDocument extracts an invoice from binary document content. The
// model receives the bytes inline; the fallback tier can only work on
// textual content, so a binary document with no usable model yields an
// explicit empty invoice.
func (p *Parser) ParseDocument(ctx context.Context, data []byte, filename, mimeType, sender string) *domain.ParsedInvoice {
	doc := &out.InlineDocument{Bytes: data, MimeType: mimeType, Filename: filename}
	inv, err := p.parseWithModel(ctx, BuildPrompt(""), doc)
	if err != nil {
		if !errors.Is(err, errModelDisabled) {
			p.log.WithError(err).Warn("model tier failed, using fallback")
		}
		if strings.HasPrefix(mimeType, "text/") {
			inv = p.fallback.Parse(string(data), filename, sender)
		} else {
			empty := domain.EmptyInvoice(filename)
			inv = &empty
		}
	} else {
		inv.Filename = filename
	}
	Sanitize(inv)
	return inv
}

func (p *Parser) parseWithModel(ctx context.Context, prompt string, doc *out.InlineDocument) (*domain.ParsedInvoice, error) {
	model, err := p.client()
	if err != nil {
		return nil, err
	}

	response, err := model.Generate(ctx, prompt, doc)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSONObject(response)
	if !ok {
		return nil, errors.New("no JSON object in model response")
	}

	var inv domain.ParsedInvoice
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, err
	}
	inv.Valid = true
	if inv.Confidence == 0 {
		inv.Confidence = modelDefaultConfidence
	}
	return &inv, nil
}
