package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"spendscan/core/port/out"
)

// =============================================================================
// OpenAI Invoice Model
// =============================================================================

// Client implements out.InvoiceModel on top of the OpenAI chat API.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// ClientConfig configures the OpenAI client.
type ClientConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are an invoice parsing assistant. " +
	"Extract structured data from purchase documents and respond with JSON only."

func NewClient(apiKey string) *Client {
	return &Client{
		client:      openai.NewClient(apiKey),
		model:       DefaultModel,
		maxTokens:   2048,
		temperature: 0.1,
	}
}

func NewClientWithConfig(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.1
	}
	return &Client{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

var _ out.InvoiceModel = (*Client)(nil)

// Generate sends the extraction prompt, optionally with an inline
// document. Image documents go through the vision content path; textual
// documents are appended to the prompt. Other binary formats are
// rejected so the caller can fall back to pattern extraction.
func (c *Client) Generate(ctx context.Context, prompt string, doc *out.InlineDocument) (string, error) {
	userMessage := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	}

	if doc != nil {
		switch {
		case strings.HasPrefix(doc.MimeType, "image/"):
			dataURL := fmt.Sprintf("data:%s;base64,%s",
				doc.MimeType, base64.StdEncoding.EncodeToString(doc.Bytes))
			userMessage = openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			}
		case strings.HasPrefix(doc.MimeType, "text/"):
			userMessage.Content = prompt + "\n\nDocument content:\n" + string(doc.Bytes)
		default:
			return "", fmt.Errorf("unsupported document type %q", doc.MimeType)
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			userMessage,
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Factory returns a lazy constructor so the client is only built when a
// document actually reaches the model tier.
func Factory(cfg ClientConfig) out.InvoiceModelFactory {
	return func() (out.InvoiceModel, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api key not configured")
		}
		return NewClientWithConfig(cfg), nil
	}
}
