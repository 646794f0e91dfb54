package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/pkg/ratelimit"
)

func newTestClient(attempts int) *Client {
	return NewClient(Config{
		BaseURL:          "http://localhost",
		APISecret:        "test",
		RetryMaxAttempts: attempts,
		RetryBackoff:     time.Millisecond,
	}, ratelimit.New(ratelimit.Limits{}))
}

func TestRetryRateLimitedUntilBound(t *testing.T) {
	c := newTestClient(3)

	calls := 0
	err := c.withRetry(context.Background(), func() error {
		calls++
		return &apierr.UpstreamError{Status: 429, Message: "rate limit exceeded"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, apierr.KindRateLimited, apierr.Classify(err).Kind)
}

func TestRetryRateLimitedRecovers(t *testing.T) {
	c := newTestClient(3)

	calls := 0
	err := c.withRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &apierr.UpstreamError{Status: 429, Message: "rate limit exceeded"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryValidationNotRetried(t *testing.T) {
	c := newTestClient(5)

	calls := 0
	err := c.withRetry(context.Background(), func() error {
		calls++
		return &apierr.UpstreamError{Status: 400, Code: "VALIDATION_ERROR", Message: "quantity below minimum"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, apierr.KindOrderValidation, apierr.Classify(err).Kind)
}

func TestRetryHonorsContext(t *testing.T) {
	c := NewClient(Config{
		BaseURL:          "http://localhost",
		APISecret:        "test",
		RetryMaxAttempts: 10,
		RetryBackoff:     time.Hour,
	}, ratelimit.New(ratelimit.Limits{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.withRetry(ctx, func() error {
		return &apierr.UpstreamError{Status: 429, Message: "rate limit exceeded"}
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseResponseFailureShapes(t *testing.T) {
	_, err := parseResponse(400, []byte(`{"success":false,"error":{"code":"INSUFFICIENT_FUNDS","message":"insufficient balance","request_id":"r-1"}}`))
	require.Error(t, err)
	ce := apierr.Classify(err)
	assert.Equal(t, apierr.KindInsufficientBalance, ce.Kind)
	assert.Equal(t, "insufficient balance", ce.Message)

	// success=false при 200 — тоже отказ
	_, err = parseResponse(200, []byte(`{"success":false,"message":"position already closed"}`))
	require.Error(t, err)

	// не-JSON от балансера не должен терять текст
	_, err = parseResponse(502, []byte("bad gateway"))
	require.Error(t, err)
	assert.Contains(t, apierr.Classify(err).Error(), "bad gateway")
}

func TestParseResponseUnwrapsData(t *testing.T) {
	raw, err := parseResponse(200, []byte(`{"success":true,"data":{"symbol":"BTCUSDT"}}`))
	require.NoError(t, err)

	rec, err := decodeObject(raw)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", rec["symbol"])
}
