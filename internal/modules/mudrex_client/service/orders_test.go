package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/internal/models"
)

func TestRoundToStep(t *testing.T) {
	assert.Equal(t, "0.001", roundToStep("0.00123", "0.001"))
	assert.Equal(t, "105", roundToStep("103", "5"))
	assert.Equal(t, "42.50", roundToStep("42.504", "0.05"))
	// нечисловой вход отдается как есть, решит апстрим
	assert.Equal(t, "abc", roundToStep("abc", "0.01"))
}

func TestRoundQuantityBelowMinimum(t *testing.T) {
	inst := models.Instrument{
		Symbol:       "BTCUSDT",
		MinQuantity:  "0.01",
		QuantityStep: "0.001",
	}

	_, err := roundQuantity("0.005", inst)
	require.Error(t, err)
	assert.Equal(t, apierr.KindOrderValidation, apierr.Classify(err).Kind)

	got, err := roundQuantity("0.0123", inst)
	require.NoError(t, err)
	assert.Equal(t, "0.012", got)
}

func TestRoundQuantityWithoutStepPassesThrough(t *testing.T) {
	got, err := roundQuantity("1.2345", models.Instrument{Symbol: "XUSDT", QuantityStep: "0"})
	require.NoError(t, err)
	assert.Equal(t, "1.2345", got)
}
