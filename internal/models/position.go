package models

import (
	"fmt"
	"strconv"
	"time"

	"mudrex_agent/internal/normalize"
)

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

type PositionStatus string

const (
	PositionOpen       PositionStatus = "OPEN"
	PositionClosed     PositionStatus = "CLOSED"
	PositionLiquidated PositionStatus = "LIQUIDATED"
)

// Position — живое состояние биржи. Никогда не читается из кэша: каждое
// получение — свежий запрос, иначе возвращаются "призрачные позиции",
// существующие только в локальном стейте.
type Position struct {
	PositionID string         `json:"position_id"`
	AssetID    string         `json:"asset_id"`
	Symbol     string         `json:"symbol"`
	Side       Side           `json:"side"`
	Status     PositionStatus `json:"status"`

	Quantity   string `json:"quantity"`
	EntryPrice string `json:"entry_price"`
	MarkPrice  string `json:"mark_price"`
	Leverage   string `json:"leverage"`
	Margin     string `json:"margin"`

	UnrealizedPnL    string `json:"unrealized_pnl"`
	RealizedPnL      string `json:"realized_pnl"`
	LiquidationPrice string `json:"liquidation_price,omitempty"`
	StoplossPrice    string `json:"stoploss_price,omitempty"`
	TakeprofitPrice  string `json:"takeprofit_price,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PositionFromRaw строит позицию из сырой записи. Количество и mark price
// обязаны пройти нормализацию quantity/size и mark_price/market_price —
// падение на отсутствующем поле, а не молчаливый ноль.
func PositionFromRaw(raw map[string]any) (Position, error) {
	qty, err := normalize.Quantity(raw)
	if err != nil {
		return Position{}, fmt.Errorf("position record: %w", err)
	}
	mark, err := normalize.MarkPrice(raw)
	if err != nil {
		return Position{}, fmt.Errorf("position record: %w", err)
	}

	return Position{
		PositionID:       rawString(raw, "position_id", "id"),
		AssetID:          rawString(raw, "asset_id"),
		Symbol:           rawString(raw, "symbol", "asset_id"),
		Side:             Side(rawStringDefault(raw, string(SideLong), "side", "order_type")),
		Status:           PositionStatus(rawStringDefault(raw, string(PositionOpen), "status")),
		Quantity:         qty,
		EntryPrice:       rawStringDefault(raw, "0", "entry_price"),
		MarkPrice:        mark,
		Leverage:         rawStringDefault(raw, "1", "leverage"),
		Margin:           rawStringDefault(raw, "0", "margin"),
		UnrealizedPnL:    rawStringDefault(raw, "0", "unrealized_pnl"),
		RealizedPnL:      rawStringDefault(raw, "0", "realized_pnl"),
		LiquidationPrice: rawString(raw, "liquidation_price"),
		StoplossPrice:    rawNestedPrice(raw, "stoploss", "stoploss_price"),
		TakeprofitPrice:  rawNestedPrice(raw, "takeprofit", "takeprofit_price"),
		CreatedAt:        rawTime(raw, "created_at"),
	}, nil
}

// Exposure — нотинал позиции: quantity × mark_price. Считается заново на
// каждом чтении из только что полученных значений, никогда не хранится.
func (p Position) Exposure() (float64, error) {
	qty, err := strconv.ParseFloat(p.Quantity, 64)
	if err != nil {
		return 0, fmt.Errorf("exposure: bad quantity %q: %w", p.Quantity, err)
	}
	mark, err := strconv.ParseFloat(p.MarkPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("exposure: bad mark_price %q: %w", p.MarkPrice, err)
	}
	return qty * mark, nil
}

// PnLPercent — uPnL в процентах от маржи; 0 при нулевой/невалидной марже.
func (p Position) PnLPercent() float64 {
	margin, err := strconv.ParseFloat(p.Margin, 64)
	if err != nil || margin <= 0 {
		return 0
	}
	pnl, err := strconv.ParseFloat(p.UnrealizedPnL, 64)
	if err != nil {
		return 0
	}
	return pnl / margin * 100
}

func (p Position) IsLong() bool  { return p.Side == SideLong }
func (p Position) IsShort() bool { return p.Side == SideShort }

func (p Position) IsProfitable() bool {
	pnl, err := strconv.ParseFloat(p.UnrealizedPnL, 64)
	return err == nil && pnl > 0
}
