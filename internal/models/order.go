package models

import (
	"fmt"
	"strconv"
	"time"

	"mudrex_agent/internal/normalize"
)

type TriggerType string

const (
	TriggerMarket TriggerType = "MARKET"
	TriggerLimit  TriggerType = "LIMIT"
)

type OrderStatus string

const (
	OrderCreated         OrderStatus = "CREATED"
	OrderOpen            OrderStatus = "OPEN"
	OrderFilled          OrderStatus = "FILLED"
	OrderPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderCancelled       OrderStatus = "CANCELLED"
	OrderExpired         OrderStatus = "EXPIRED"
)

type Order struct {
	OrderID string      `json:"order_id"`
	AssetID string      `json:"asset_id"`
	Symbol  string      `json:"symbol"`
	Side    Side        `json:"side"`
	Trigger TriggerType `json:"trigger_type"`
	Status  OrderStatus `json:"status"`

	Quantity       string `json:"quantity"`
	FilledQuantity string `json:"filled_quantity"`
	// Price пуст для маркет-ордеров: цены заявки у них нет.
	Price    string `json:"price,omitempty"`
	Leverage string `json:"leverage"`

	StoplossPrice   string `json:"stoploss_price,omitempty"`
	TakeprofitPrice string `json:"takeprofit_price,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// OrderFromRaw строит ордер из сырой записи; quantity идёт через
// нормализацию quantity/size. filled_quantity действительно опционален:
// нулевое заполнение — честное состояние свежего ордера.
func OrderFromRaw(raw map[string]any) (Order, error) {
	qty, err := normalize.Quantity(raw)
	if err != nil {
		return Order{}, fmt.Errorf("order record: %w", err)
	}

	o := Order{
		OrderID:         rawString(raw, "order_id", "id"),
		AssetID:         rawString(raw, "asset_id"),
		Symbol:          rawString(raw, "symbol", "asset_id"),
		Side:            Side(rawStringDefault(raw, string(SideLong), "order_type", "side")),
		Trigger:         TriggerType(rawStringDefault(raw, string(TriggerMarket), "trigger_type")),
		Status:          OrderStatus(rawStringDefault(raw, string(OrderOpen), "status")),
		Quantity:        qty,
		FilledQuantity:  rawStringDefault(raw, "0", "filled_quantity", "filled_size"),
		Leverage:        rawStringDefault(raw, "1", "leverage"),
		StoplossPrice:   rawString(raw, "stoploss_price"),
		TakeprofitPrice: rawString(raw, "takeprofit_price"),
		CreatedAt:       rawTime(raw, "created_at"),
		UpdatedAt:       rawTime(raw, "updated_at"),
	}
	if o.Trigger != TriggerMarket {
		o.Price = rawStringDefault(raw, "0", "price", "order_price")
	}
	return o, nil
}

func (o Order) IsFilled() bool { return o.Status == OrderFilled }

func (o Order) IsOpen() bool {
	switch o.Status {
	case OrderOpen, OrderCreated, OrderPartiallyFilled:
		return true
	}
	return false
}

// FillPercent — доля исполнения в процентах. Для нулевого quantity не
// определена (ошибка, а не ноль).
func (o Order) FillPercent() (float64, error) {
	qty, err := strconv.ParseFloat(o.Quantity, 64)
	if err != nil {
		return 0, fmt.Errorf("fill percent: bad quantity %q: %w", o.Quantity, err)
	}
	if qty == 0 {
		return 0, fmt.Errorf("fill percent undefined: quantity is zero")
	}
	filled, err := strconv.ParseFloat(o.FilledQuantity, 64)
	if err != nil {
		return 0, fmt.Errorf("fill percent: bad filled_quantity %q: %w", o.FilledQuantity, err)
	}
	return filled / qty * 100, nil
}
