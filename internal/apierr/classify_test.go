package apierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mudrex_agent/internal/normalize"
)

func TestClassifyInsufficientByMessage(t *testing.T) {
	err := &UpstreamError{Status: 409, Message: "Insufficient margin for order"}
	c := Classify(err)
	assert.Equal(t, KindInsufficientBalance, c.Kind)
	assert.Contains(t, c.Suggestion, "transfer")
	assert.False(t, c.Retriable)
}

func TestClassifyByUpstreamCode(t *testing.T) {
	cases := map[string]Kind{
		"INSUFFICIENT_FUNDS": KindInsufficientBalance,
		"ASSET_NOT_FOUND":    KindNotFound,
		"ORDER_REJECTED":     KindOrderValidation,
		"POSITION_CLOSED":    KindPositionOperation,
		"INVALID_API_KEY":    KindAuthentication,
		"TOO_MANY_REQUESTS":  KindRateLimited,
	}
	for code, want := range cases {
		c := Classify(&UpstreamError{Status: 400, Code: code, Message: "x"})
		assert.Equal(t, want, c.Kind, "code %s", code)
	}
}

func TestClassifyNotFoundSuggestsSearch(t *testing.T) {
	c := Classify(&UpstreamError{Status: 404, Message: "symbol BTCUSDTX not found"})
	assert.Equal(t, KindNotFound, c.Kind)
	assert.Contains(t, c.Suggestion, "search_markets")
}

func TestClassifyRateLimitedIsRetriable(t *testing.T) {
	c := Classify(&UpstreamError{Status: 429, Message: "slow down"})
	assert.Equal(t, KindRateLimited, c.Kind)
	assert.True(t, c.Retriable)
	assert.True(t, IsRetriable(c))
}

func TestClassifyMissingField(t *testing.T) {
	err := &normalize.MissingFieldError{Canonical: "quantity", Alias: "size"}
	c := Classify(err)
	assert.Equal(t, KindMissingField, c.Kind)
	assert.Contains(t, c.Message, "quantity")
}

func TestClassifyUnknownPreservesRawMessage(t *testing.T) {
	raw := errors.New("tcp reset by peer during handshake")
	c := Classify(raw)
	assert.Equal(t, KindUnknownUpstream, c.Kind)
	assert.Contains(t, c.Message, "tcp reset by peer")
	assert.ErrorIs(t, c, raw)
}

func TestClassifyIsDeterministic(t *testing.T) {
	err := &UpstreamError{Status: 500, Message: "boom"}
	a, b := Classify(err), Classify(err)
	assert.Equal(t, a.Kind, b.Kind)
	assert.Equal(t, a.Message, b.Message)
}

func TestClassifyIdempotentOnClassified(t *testing.T) {
	c := Classify(&UpstreamError{Status: 429, Message: "x"})
	again := Classify(c)
	require.Same(t, c, again)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}
