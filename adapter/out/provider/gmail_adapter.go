package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"spendscan/core/domain"
	"spendscan/core/port/out"
	"spendscan/pkg/logger"
)

// =============================================================================
// Gmail Adapter
// =============================================================================

// GmailAdapter implements out.MailboxPort against the Gmail API.
type GmailAdapter struct {
	config *oauth2.Config
	token  *oauth2.Token
	cb     *gobreaker.CircuitBreaker
	log    *logger.Logger
}

// GmailConfig holds Gmail OAuth configuration.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewGmailAdapter creates a new Gmail adapter bound to one user token.
func NewGmailAdapter(cfg *GmailConfig, token *oauth2.Token) *GmailAdapter {
	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			gmail.GmailReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}

	adapterLog := logger.Default().WithField("component", "gmail_adapter")

	cbSettings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// More than 5 consecutive failures, or 60%+ failure rate
			// over at least 10 requests.
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			adapterLog.Warn("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}

	return &GmailAdapter{
		config: config,
		token:  token,
		cb:     gobreaker.NewCircuitBreaker(cbSettings),
		log:    adapterLog,
	}
}

// GetAuthURL returns the OAuth authorization URL.
func (a *GmailAdapter) GetAuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeToken exchanges an authorization code for a token.
func (a *GmailAdapter) ExchangeToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, a.wrapError(err, "failed to exchange token")
	}
	return token, nil
}

// =============================================================================
// MailboxPort
// =============================================================================

// Search lists message ids matching the query, newest first.
func (a *GmailAdapter) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	svc, err := a.getService(ctx)
	if err != nil {
		return nil, a.wrapError(err, "failed to create gmail service")
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	var resp *gmail.ListMessagesResponse
	cbErr := a.executeWithCircuitBreaker("Search", func() error {
		var apiErr error
		resp, apiErr = svc.Users.Messages.List("me").Q(query).MaxResults(maxResults).Context(ctx).Do()
		return apiErr
	})
	if cbErr != nil {
		return nil, a.wrapError(cbErr, "failed to search messages")
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetFull fetches one message with its complete payload.
func (a *GmailAdapter) GetFull(ctx context.Context, messageID string) (*domain.RawMessage, error) {
	svc, err := a.getService(ctx)
	if err != nil {
		return nil, a.wrapError(err, "failed to create gmail service")
	}

	var msg *gmail.Message
	cbErr := a.executeWithCircuitBreaker("GetFull", func() error {
		var apiErr error
		msg, apiErr = svc.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
		return apiErr
	})
	if cbErr != nil {
		return nil, a.wrapError(cbErr, "failed to get message")
	}
	return convertMessage(msg), nil
}

// GetAttachment fetches and decodes one attachment body.
func (a *GmailAdapter) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	svc, err := a.getService(ctx)
	if err != nil {
		return nil, a.wrapError(err, "failed to create gmail service")
	}

	var att *gmail.MessagePartBody
	cbErr := a.executeWithCircuitBreaker("GetAttachment", func() error {
		var apiErr error
		att, apiErr = svc.Users.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
		return apiErr
	})
	if cbErr != nil {
		return nil, a.wrapError(cbErr, "failed to get attachment")
	}

	data, err := base64.URLEncoding.DecodeString(att.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment: %w", err)
	}
	return data, nil
}

var _ out.MailboxPort = (*GmailAdapter)(nil)

// =============================================================================
// Conversion
// =============================================================================

func convertMessage(msg *gmail.Message) *domain.RawMessage {
	raw := &domain.RawMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Headers:  make(map[string]string),
		Snippet:  msg.Snippet,
	}
	if msg.Payload == nil {
		return raw
	}
	for _, h := range msg.Payload.Headers {
		raw.Headers[h.Name] = h.Value
	}
	raw.Payload = convertPart(msg.Payload)
	return raw
}

func convertPart(part *gmail.MessagePart) *domain.MessagePart {
	converted := &domain.MessagePart{
		MimeType: part.MimeType,
		Filename: part.Filename,
	}
	if part.Body != nil {
		converted.AttachmentID = part.Body.AttachmentId
		converted.SizeBytes = part.Body.Size
		if part.Body.Data != "" {
			if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
				converted.Body = data
			}
		}
	}
	for _, child := range part.Parts {
		converted.Parts = append(converted.Parts, convertPart(child))
	}
	return converted
}

// =============================================================================
// Internals
// =============================================================================

func (a *GmailAdapter) getService(ctx context.Context) (*gmail.Service, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	return gmail.NewService(ctx, option.WithTokenSource(
		a.config.TokenSource(ctx, a.token),
	))
}

// executeWithCircuitBreaker wraps an API call with circuit breaker
// protection so a struggling Gmail backend fails fast instead of
// cascading.
func (a *GmailAdapter) executeWithCircuitBreaker(operation string, fn func() error) error {
	_, err := a.cb.Execute(func() (interface{}, error) {
		if err := fn(); err != nil {
			if apiErr, ok := err.(*googleapi.Error); ok {
				switch apiErr.Code {
				case 500, 502, 503, 429:
					// Server-side trouble: let it trip the breaker.
					return nil, err
				case 400, 401, 403, 404:
					// Client errors must not open the circuit.
					return nil, &nonCircuitError{err: err}
				}
			}
			return nil, err
		}
		return nil, nil
	})

	if nce, ok := err.(*nonCircuitError); ok {
		return nce.err
	}
	if err != nil {
		a.log.WithError(err).Warn("circuit breaker error for %s: state=%s", operation, a.cb.State().String())
	}
	return err
}

// nonCircuitError wraps errors that should not trip the circuit breaker.
type nonCircuitError struct {
	err error
}

func (e *nonCircuitError) Error() string {
	return e.err.Error()
}

// IsCircuitOpen reports whether calls are currently failing fast.
func (a *GmailAdapter) IsCircuitOpen() bool {
	return a.cb.State() == gobreaker.StateOpen
}

func (a *GmailAdapter) wrapError(err error, defaultMsg string) error {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(*googleapi.Error); ok {
		switch apiErr.Code {
		case 401:
			return out.NewProviderError("gmail", out.ProviderErrTokenExpired, "token expired", err, false)
		case 403:
			if strings.Contains(apiErr.Message, "Rate Limit") {
				return out.NewProviderError("gmail", out.ProviderErrRateLimit, "rate limit exceeded", err, true)
			}
			return out.NewProviderError("gmail", out.ProviderErrAuth, "access denied", err, false)
		case 404:
			return out.NewProviderError("gmail", out.ProviderErrNotFound, "not found", err, false)
		case 429:
			return out.NewProviderError("gmail", out.ProviderErrRateLimit, "too many requests", err, true)
		case 500, 502, 503:
			return out.NewProviderError("gmail", out.ProviderErrServer, "server error", err, true)
		}
	}

	return out.NewProviderError("gmail", out.ProviderErrServer, defaultMsg, err, true)
}
