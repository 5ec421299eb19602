package out

import (
	"context"
	"errors"

	"spendscan/core/domain"
)

// MailboxPort is the outbound port for the mail provider. Implementations
// must be safe for concurrent use; the retriever fetches messages in
// parallel batches.
type MailboxPort interface {
	// Search returns the ids of messages matching the provider query,
	// newest first, capped at maxResults.
	Search(ctx context.Context, query string, maxResults int64) ([]string, error)

	// GetFull fetches one message with its complete MIME payload.
	GetFull(ctx context.Context, messageID string) (*domain.RawMessage, error)

	// GetAttachment fetches the decoded bytes of one attachment.
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// =============================================================================
// Provider Error
// =============================================================================

// ProviderErrorCode represents provider error codes.
type ProviderErrorCode string

const (
	ProviderErrAuth         ProviderErrorCode = "auth_error"
	ProviderErrTokenExpired ProviderErrorCode = "token_expired"
	ProviderErrRateLimit    ProviderErrorCode = "rate_limit"
	ProviderErrNotFound     ProviderErrorCode = "not_found"
	ProviderErrNetwork      ProviderErrorCode = "network_error"
	ProviderErrServer       ProviderErrorCode = "server_error"
	ProviderErrInvalidInput ProviderErrorCode = "invalid_input"
)

// ProviderError wraps a provider failure with a stable code. Auth and
// token-expiry codes abort a whole extraction run; everything else is
// confined to the message that triggered it.
type ProviderError struct {
	Provider  string
	Code      ProviderErrorCode
	Message   string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new provider error.
func NewProviderError(provider string, code ProviderErrorCode, message string, err error, retryable bool) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Code:      code,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// IsAuthError reports whether err is a provider auth or token-expiry
// failure, the class that makes further provider calls pointless.
func IsAuthError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code == ProviderErrAuth || pe.Code == ProviderErrTokenExpired
	}
	return false
}
