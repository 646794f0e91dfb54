package apierr

import (
	"context"
	"errors"
	"strings"

	"mudrex_agent/internal/normalize"
)

// Подсказки по исправлению — по одной на вид ошибки.
// unknown_upstream намеренно без конкретики: это материал для баг-репорта.
var suggestions = map[Kind]string{
	KindMissingField:        "the upstream record is malformed; report it together with the raw payload",
	KindInsufficientBalance: "check your futures balance and transfer funds from the spot wallet (transfer_to_futures)",
	KindOrderValidation:     "check quantity against quantity_step and leverage against the instrument bounds (get_market)",
	KindPositionOperation:   "refresh open positions (list_open_positions) — the position may already be closed",
	KindNotFound:            "run search_markets to find a valid symbol, or list_markets for the full set",
	KindAuthentication:      "verify the API secret and that the key has not expired or been revoked",
	KindRateLimited:         "the request budget is exhausted; wait and retry",
	KindUnknownUpstream:     "unrecognized upstream failure; report it with the raw message below",
}

// Бизнес-коды апстрима -> вид. Снято с поведения боевого API.
var codeKinds = map[string]Kind{
	"UNAUTHORIZED":         KindAuthentication,
	"FORBIDDEN":            KindAuthentication,
	"INVALID_API_KEY":      KindAuthentication,
	"API_KEY_EXPIRED":      KindAuthentication,
	"RATE_LIMIT_EXCEEDED":  KindRateLimited,
	"TOO_MANY_REQUESTS":    KindRateLimited,
	"INVALID_REQUEST":      KindOrderValidation,
	"VALIDATION_ERROR":     KindOrderValidation,
	"BAD_REQUEST":          KindOrderValidation,
	"INVALID_PARAMETER":    KindOrderValidation,
	"ORDER_REJECTED":       KindOrderValidation,
	"ORDER_FAILED":         KindOrderValidation,
	"NOT_FOUND":            KindNotFound,
	"ASSET_NOT_FOUND":      KindNotFound,
	"ORDER_NOT_FOUND":      KindNotFound,
	"POSITION_NOT_FOUND":   KindNotFound,
	"INSUFFICIENT_BALANCE": KindInsufficientBalance,
	"INSUFFICIENT_MARGIN":  KindInsufficientBalance,
	"INSUFFICIENT_FUNDS":   KindInsufficientBalance,
	"POSITION_ERROR":       KindPositionOperation,
	"POSITION_CLOSED":      KindPositionOperation,
}

// Classify сводит произвольную ошибку к одному элементу таксономии.
// Детерминированна: одинаковый вход всегда даёт одинаковый вид.
// Сырая ошибка сохраняется (Unwrap), сообщение никогда не глотается.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	var mfe *normalize.MissingFieldError
	if errors.As(err, &mfe) {
		return newError(KindMissingField, mfe.Error(), err)
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return classifyUpstream(ue, err)
	}

	return newError(KindUnknownUpstream, err.Error(), err)
}

func classifyUpstream(ue *UpstreamError, raw error) *Error {
	if kind, ok := codeKinds[strings.ToUpper(ue.Code)]; ok {
		return newError(kind, ue.Message, raw)
	}

	msg := strings.ToLower(ue.Message)
	switch {
	case strings.Contains(msg, "insufficient"):
		return newError(KindInsufficientBalance, ue.Message, raw)
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return newError(KindRateLimited, ue.Message, raw)
	case strings.Contains(msg, "not found") || strings.Contains(msg, "unknown symbol"):
		return newError(KindNotFound, ue.Message, raw)
	}

	switch {
	case ue.Status == 401 || ue.Status == 403:
		return newError(KindAuthentication, ue.Message, raw)
	case ue.Status == 404:
		return newError(KindNotFound, ue.Message, raw)
	case ue.Status == 429:
		return newError(KindRateLimited, ue.Message, raw)
	case ue.Status == 400:
		return newError(KindOrderValidation, ue.Message, raw)
	}

	return newError(KindUnknownUpstream, ue.Error(), raw)
}

func newError(kind Kind, msg string, raw error) *Error {
	if msg == "" {
		msg = raw.Error()
	}
	return &Error{
		Kind:       kind,
		Message:    msg,
		Suggestion: suggestions[kind],
		Retriable:  kind == KindRateLimited,
		raw:        raw,
	}
}

// IsRetriable — единственный повод для повтора запроса.
func IsRetriable(err error) bool {
	c := Classify(err)
	return c != nil && c.Retriable
}

// NotFound строит классифицированную not_found без похода в Classify по сырому
// тексту (для локальных проверок вроде "символа нет в снапшоте каталога").
func NotFound(msg string) *Error {
	return newError(KindNotFound, msg, errors.New(msg))
}

// Validation — локальная ошибка параметров операции.
func Validation(msg string) *Error {
	return newError(KindOrderValidation, msg, errors.New(msg))
}

// Canceled: отмену контекста не маскируем под ошибку апстрима.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
