package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinBudget(t *testing.T) {
	b := New(Limits{PerSecond: 2})
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())
}

func TestWindowReleasesAfterSize(t *testing.T) {
	now := time.Unix(1000, 0)
	b := New(Limits{PerSecond: 1})
	b.now = func() time.Time { return now }

	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	now = now.Add(1100 * time.Millisecond)
	assert.True(t, b.Allow())
}

func TestTightestWindowWins(t *testing.T) {
	now := time.Unix(1000, 0)
	b := New(Limits{PerSecond: 10, PerMinute: 2})
	b.now = func() time.Time { return now }

	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	// секундный лимит не выбран, но минутный исчерпан
	assert.False(t, b.Allow())
}

func TestWaitBlocksThenProceeds(t *testing.T) {
	b := New(Limits{PerSecond: 1})
	require.NoError(t, b.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, b.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestWaitHonorsContext(t *testing.T) {
	b := New(Limits{PerSecond: 1})
	require.NoError(t, b.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := b.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
