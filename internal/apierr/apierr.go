package apierr

import "fmt"

// Kind — закрытая таксономия ошибок. Наружу (агенту) уходит только она.
type Kind string

const (
	KindMissingField        Kind = "missing_field"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindOrderValidation     Kind = "order_validation"
	KindPositionOperation   Kind = "position_operation"
	KindNotFound            Kind = "not_found"
	KindAuthentication      Kind = "authentication"
	KindRateLimited         Kind = "rate_limited"
	KindUnknownUpstream     Kind = "unknown_upstream"
)

// UpstreamError — сырая ошибка апстрима (HTTP-статус + бизнес-код + сообщение).
// За пределами клиента и классификатора её никто не разбирает.
type UpstreamError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mudrex api: http %d code=%s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("mudrex api: http %d: %s", e.Status, e.Message)
}

// Error — классифицированная ошибка. Конструируется только через Classify.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string
	Retriable  bool

	raw error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.raw }
