package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mudrex_agent/internal/normalize"
)

func TestPositionFromRawNormalizesAliases(t *testing.T) {
	p, err := PositionFromRaw(map[string]any{
		"position_id":  "pos_1",
		"symbol":       "ETHUSDT",
		"side":         "SHORT",
		"size":         "2.5",
		"market_price": "4100.50",
		"entry_price":  "4000",
		"margin":       "500",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.5", p.Quantity)
	assert.Equal(t, "4100.50", p.MarkPrice)
	assert.True(t, p.IsShort())
}

func TestPositionFromRawMissingQuantityFails(t *testing.T) {
	_, err := PositionFromRaw(map[string]any{
		"position_id": "pos_1",
		"symbol":      "ETHUSDT",
		"mark_price":  "4100",
	})
	var mfe *normalize.MissingFieldError
	require.ErrorAs(t, err, &mfe)
}

func TestExposureRecomputedFromCurrentValues(t *testing.T) {
	raw := map[string]any{
		"position_id": "pos_1",
		"symbol":      "BTCUSDT",
		"quantity":    "0.5",
		"mark_price":  "40000",
	}
	p, err := PositionFromRaw(raw)
	require.NoError(t, err)
	exp, err := p.Exposure()
	require.NoError(t, err)
	assert.InDelta(t, 20000, exp, 1e-9)

	// внешнее изменение -> новое чтение отражает новые значения
	raw["mark_price"] = "42000"
	p2, err := PositionFromRaw(raw)
	require.NoError(t, err)
	exp2, err := p2.Exposure()
	require.NoError(t, err)
	assert.InDelta(t, 21000, exp2, 1e-9)
}

func TestPositionNestedRiskPrices(t *testing.T) {
	p, err := PositionFromRaw(map[string]any{
		"position_id": "pos_1",
		"symbol":      "ETHUSDT",
		"quantity":    "1",
		"mark_price":  "4000",
		"stoploss":    map[string]any{"price": "3900", "order_id": "o1"},
		"takeprofit":  map[string]any{"price": "4300"},
	})
	require.NoError(t, err)
	assert.Equal(t, "3900", p.StoplossPrice)
	assert.Equal(t, "4300", p.TakeprofitPrice)
}

func TestPnLPercent(t *testing.T) {
	p := Position{Margin: "200", UnrealizedPnL: "50"}
	assert.InDelta(t, 25, p.PnLPercent(), 1e-9)

	p = Position{Margin: "0", UnrealizedPnL: "50"}
	assert.Zero(t, p.PnLPercent())
}
