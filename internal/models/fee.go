package models

import "time"

// FeeRecord — одна комиссионная транзакция из истории.
type FeeRecord struct {
	FeeID     string    `json:"fee_id"`
	AssetID   string    `json:"asset_id"`
	Symbol    string    `json:"symbol"`
	FeeAmount string    `json:"fee_amount"`
	FeeType   string    `json:"fee_type"`
	OrderID   string    `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func FeeRecordFromRaw(raw map[string]any) FeeRecord {
	return FeeRecord{
		FeeID:     rawString(raw, "fee_id", "id"),
		AssetID:   rawString(raw, "asset_id"),
		Symbol:    rawString(raw, "symbol", "asset_id"),
		FeeAmount: rawStringDefault(raw, "0", "fee_amount"),
		FeeType:   rawStringDefault(raw, "TRADING", "fee_type"),
		OrderID:   rawString(raw, "order_id"),
		CreatedAt: rawTime(raw, "created_at"),
	}
}
