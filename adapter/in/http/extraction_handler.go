package http

import (
	"errors"

	"spendscan/core/domain"
	"spendscan/core/port/in"
	"spendscan/core/port/out"

	"github.com/gofiber/fiber/v2"
)

// ExtractionHandler drives pipeline runs and exposes stored results.
type ExtractionHandler struct {
	extraction in.ExtractionUseCase
	records    out.RecordRepository
	invoices   out.InvoiceRepository
}

func NewExtractionHandler(extraction in.ExtractionUseCase) *ExtractionHandler {
	return &ExtractionHandler{extraction: extraction}
}

// NewExtractionHandlerFull creates the handler with repository access
// for listing persisted results.
func NewExtractionHandlerFull(
	extraction in.ExtractionUseCase,
	records out.RecordRepository,
	invoices out.InvoiceRepository,
) *ExtractionHandler {
	return &ExtractionHandler{
		extraction: extraction,
		records:    records,
		invoices:   invoices,
	}
}

func (h *ExtractionHandler) Register(app fiber.Router) {
	app.Post("/extract", h.Extract)
	app.Get("/records", h.ListRecords)
	app.Get("/invoices", h.ListInvoices)
}

type extractRequest struct {
	LookbackDays   int    `json:"lookbackDays"`
	Kind           string `json:"kind"`
	MaxResults     int64  `json:"maxResults"`
	ParseDocuments bool   `json:"parseDocuments"`
}

func (h *ExtractionHandler) Extract(c *fiber.Ctx) error {
	var req extractRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return ErrorResponse(c, 400, "invalid request body")
		}
	}

	kind := domain.RecordKind(req.Kind)
	switch kind {
	case "", domain.KindPurchase, domain.KindRefund, domain.KindWarranty:
	default:
		return ErrorResponse(c, 400, "invalid kind: "+req.Kind)
	}

	result, err := h.extraction.Extract(c.Context(), in.ExtractRequest{
		LookbackDays:   req.LookbackDays,
		Kind:           kind,
		MaxResults:     req.MaxResults,
		ParseDocuments: req.ParseDocuments,
	})
	if err != nil {
		// An auth failure still carries whatever was collected before
		// the cutoff; surface both.
		var provErr *out.ProviderError
		if errors.As(err, &provErr) && out.IsAuthError(err) {
			return c.Status(401).JSON(fiber.Map{
				"error":   "mailbox authorization failed",
				"code":    string(provErr.Code),
				"partial": result,
			})
		}
		return InternalErrorResponse(c, err, "extraction")
	}

	return SuccessResponse(c, result)
}

func (h *ExtractionHandler) ListRecords(c *fiber.Ctx) error {
	if h.records == nil {
		return ErrorResponse(c, 404, "record storage not configured")
	}

	kind := domain.RecordKind(c.Query("kind"))
	switch kind {
	case "", domain.KindPurchase, domain.KindRefund, domain.KindWarranty, domain.KindOther:
	default:
		return ErrorResponse(c, 400, "invalid kind: "+string(kind))
	}

	p := GetPaginationParams(c, 50)
	records, err := h.records.ListRecords(c.Context(), kind, p.Limit, p.Offset)
	if err != nil {
		return InternalErrorResponse(c, err, "record listing")
	}

	return SuccessResponse(c, fiber.Map{
		"records": records,
		"count":   len(records),
	})
}

func (h *ExtractionHandler) ListInvoices(c *fiber.Ctx) error {
	if h.invoices == nil {
		return ErrorResponse(c, 404, "invoice storage not configured")
	}

	p := GetPaginationParams(c, 50)
	invoices, err := h.invoices.ListInvoices(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return InternalErrorResponse(c, err, "invoice listing")
	}

	return SuccessResponse(c, fiber.Map{
		"invoices": invoices,
		"count":    len(invoices),
	})
}
