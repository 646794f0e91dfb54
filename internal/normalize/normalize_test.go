package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityPrefersCanonicalKey(t *testing.T) {
	got, err := Quantity(map[string]any{"quantity": "0.5", "size": "99"})
	require.NoError(t, err)
	assert.Equal(t, "0.5", got)
}

func TestQuantityFallsBackToSize(t *testing.T) {
	got, err := Quantity(map[string]any{"size": "12.75"})
	require.NoError(t, err)
	assert.Equal(t, "12.75", got)
}

func TestQuantityNumericValue(t *testing.T) {
	got, err := Quantity(map[string]any{"size": 100.0})
	require.NoError(t, err)
	assert.Equal(t, "100", got)
}

func TestQuantityMissingNeverReturnsZero(t *testing.T) {
	got, err := Quantity(map[string]any{"symbol": "BTCUSDT"})
	require.Error(t, err)
	assert.Empty(t, got)

	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "quantity", mfe.Canonical)
	assert.Equal(t, "size", mfe.Alias)
}

func TestQuantityNilAndEmptyCountAsAbsent(t *testing.T) {
	_, err := Quantity(map[string]any{"quantity": nil, "size": ""})
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
}

func TestMarkPriceFallsBackToMarketPrice(t *testing.T) {
	got, err := MarkPrice(map[string]any{"market_price": "43250.10"})
	require.NoError(t, err)
	assert.Equal(t, "43250.10", got)
}

func TestMarkPriceMissing(t *testing.T) {
	_, err := MarkPrice(map[string]any{"last_price": "1"})
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "mark_price", mfe.Canonical)
}

func TestIdentifierSymbolPriority(t *testing.T) {
	id, bySymbol, err := Identifier("BTCUSDT", "01903a7b")
	require.NoError(t, err)
	assert.True(t, bySymbol)
	assert.Equal(t, "BTCUSDT", id)

	id, bySymbol, err = Identifier("", "01903a7b")
	require.NoError(t, err)
	assert.False(t, bySymbol)
	assert.Equal(t, "01903a7b", id)

	_, _, err = Identifier("", "")
	assert.Error(t, err)
}
