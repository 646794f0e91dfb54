package models

import (
	"fmt"
	"strconv"
)

// Instrument — справочные данные торгового инструмента. Производится только
// каталогом (fetch-all) и неизменяем в рамках одного снапшота: символ, которого
// нет в свежем снапшоте, считается неизвестным, а не "устаревшим, но валидным".
type Instrument struct {
	AssetID       string `json:"asset_id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name,omitempty"`
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`

	MinQuantity  string `json:"min_quantity"`
	MaxQuantity  string `json:"max_quantity"`
	QuantityStep string `json:"quantity_step"`
	MinLeverage  string `json:"min_leverage"`
	MaxLeverage  string `json:"max_leverage"`
	MakerFee     string `json:"maker_fee"`
	TakerFee     string `json:"taker_fee"`
	IsActive     bool   `json:"is_active"`

	PriceStep string `json:"price_step,omitempty"`
	Price     string `json:"price,omitempty"`
}

// InstrumentFromRaw разбирает сырую запись справочника. Алиасы полей
// (id/min_contract/max_contract/trading_fee_perc) — наследие апстрима.
func InstrumentFromRaw(raw map[string]any) (Instrument, error) {
	inst := Instrument{
		AssetID:       rawString(raw, "asset_id", "id"),
		Symbol:        rawString(raw, "symbol"),
		Name:          rawString(raw, "name"),
		BaseCurrency:  rawString(raw, "base_currency"),
		QuoteCurrency: rawStringDefault(raw, "USDT", "quote_currency"),
		MinQuantity:   rawStringDefault(raw, "0", "min_quantity", "min_contract"),
		MaxQuantity:   rawStringDefault(raw, "0", "max_quantity", "max_contract"),
		QuantityStep:  rawStringDefault(raw, "0", "quantity_step"),
		MinLeverage:   rawStringDefault(raw, "1", "min_leverage"),
		MaxLeverage:   rawStringDefault(raw, "100", "max_leverage"),
		MakerFee:      rawStringDefault(raw, "0", "maker_fee"),
		TakerFee:      rawStringDefault(raw, "0", "taker_fee", "trading_fee_perc"),
		IsActive:      rawBool(raw, "is_active", true),
		PriceStep:     rawString(raw, "price_step"),
		Price:         rawString(raw, "price"),
	}
	if inst.Symbol == "" {
		return Instrument{}, fmt.Errorf("instrument record without symbol (asset_id=%q)", inst.AssetID)
	}
	return inst, nil
}

// MaxLeverageValue — числовая max_leverage для фильтров; 0, если не парсится.
func (i Instrument) MaxLeverageValue() float64 {
	v, err := strconv.ParseFloat(i.MaxLeverage, 64)
	if err != nil {
		return 0
	}
	return v
}
