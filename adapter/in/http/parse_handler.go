package http

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"spendscan/core/port/in"

	"github.com/gofiber/fiber/v2"
)

// 10MB upload ceiling, matching what the parser tiers can reasonably
// handle in one request.
const maxUploadBytes = 10 << 20

// ParseHandler exposes the invoice parser without the mailbox.
type ParseHandler struct {
	parse in.ParseUseCase
}

func NewParseHandler(parse in.ParseUseCase) *ParseHandler {
	return &ParseHandler{parse: parse}
}

func (h *ParseHandler) Register(app fiber.Router) {
	app.Post("/parse/text", h.ParseText)
	app.Post("/parse/document", h.ParseDocument)
	app.Post("/warranty/analyze", h.AnalyzeWarranty)
	app.Get("/supported-formats", h.SupportedFormats)
}

type parseTextRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

func (h *ParseHandler) ParseText(c *fiber.Ctx) error {
	var req parseTextRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorResponse(c, 400, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return ErrorResponse(c, 400, "text is required")
	}

	inv, err := h.parse.ParseText(c.Context(), req.Text, req.Filename)
	if err != nil {
		return InternalErrorResponse(c, err, "text parsing")
	}
	return SuccessResponse(c, inv)
}

func (h *ParseHandler) ParseDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrorResponse(c, 400, "file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return ErrorResponse(c, 400, "file too large")
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		return InternalErrorResponse(c, err, "file upload")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = guessMimeType(fileHeader.Filename)
	}

	inv, err := h.parse.ParseDocument(c.Context(), data, fileHeader.Filename, mimeType)
	if err != nil {
		return InternalErrorResponse(c, err, "document parsing")
	}
	return SuccessResponse(c, inv)
}

type warrantyRequest struct {
	Text         string `json:"text"`
	PurchaseDate string `json:"purchaseDate"`
}

func (h *ParseHandler) AnalyzeWarranty(c *fiber.Ctx) error {
	var req warrantyRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorResponse(c, 400, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return ErrorResponse(c, 400, "text is required")
	}

	analysis, err := h.parse.AnalyzeWarranty(c.Context(), req.Text, req.PurchaseDate)
	if err != nil {
		return InternalErrorResponse(c, err, "warranty analysis")
	}
	return SuccessResponse(c, analysis)
}

func (h *ParseHandler) SupportedFormats(c *fiber.Ctx) error {
	return SuccessResponse(c, fiber.Map{
		"formats": []fiber.Map{
			{"extension": ".pdf", "mimeType": "application/pdf", "tier": "model"},
			{"extension": ".png", "mimeType": "image/png", "tier": "model"},
			{"extension": ".jpg", "mimeType": "image/jpeg", "tier": "model"},
			{"extension": ".txt", "mimeType": "text/plain", "tier": "model+fallback"},
			{"extension": ".html", "mimeType": "text/html", "tier": "model+fallback"},
		},
		"maxSizeBytes": maxUploadBytes,
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func guessMimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".html", ".htm":
		return "text/html"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
