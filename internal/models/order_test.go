package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFromRawSizeAlias(t *testing.T) {
	o, err := OrderFromRaw(map[string]any{
		"order_id":     "ord_1",
		"symbol":       "XRPUSDT",
		"order_type":   "LONG",
		"trigger_type": "LIMIT",
		"size":         "100",
		"order_price":  "2.05",
		"status":       "OPEN",
	})
	require.NoError(t, err)
	assert.Equal(t, "100", o.Quantity)
	assert.Equal(t, "2.05", o.Price)
	assert.True(t, o.IsOpen())
	assert.False(t, o.IsFilled())
}

func TestOrderMarketHasNoPrice(t *testing.T) {
	o, err := OrderFromRaw(map[string]any{
		"order_id":     "ord_2",
		"symbol":       "BTCUSDT",
		"trigger_type": "MARKET",
		"quantity":     "0.01",
		"order_price":  "999999999",
	})
	require.NoError(t, err)
	assert.Empty(t, o.Price)
}

func TestOrderMissingQuantityFails(t *testing.T) {
	_, err := OrderFromRaw(map[string]any{"order_id": "ord_3", "symbol": "BTCUSDT"})
	require.Error(t, err)
}

func TestFillPercent(t *testing.T) {
	o := Order{Quantity: "100", FilledQuantity: "25"}
	pct, err := o.FillPercent()
	require.NoError(t, err)
	assert.InDelta(t, 25, pct, 1e-9)
}

func TestFillPercentUndefinedForZeroQuantity(t *testing.T) {
	o := Order{Quantity: "0", FilledQuantity: "0"}
	_, err := o.FillPercent()
	assert.Error(t, err)
}

func TestOrderStatusPredicates(t *testing.T) {
	for _, st := range []OrderStatus{OrderOpen, OrderCreated, OrderPartiallyFilled} {
		assert.True(t, Order{Status: st}.IsOpen(), string(st))
	}
	for _, st := range []OrderStatus{OrderFilled, OrderCancelled, OrderExpired} {
		assert.False(t, Order{Status: st}.IsOpen(), string(st))
	}
	assert.True(t, Order{Status: OrderFilled}.IsFilled())
}
