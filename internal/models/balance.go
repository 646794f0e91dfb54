package models

import "strconv"

type WalletType string

const (
	WalletSpot    WalletType = "SPOT"
	WalletFutures WalletType = "FUTURES"
)

// WalletBalance — баланс спотового кошелька.
type WalletBalance struct {
	Total        string `json:"total"`
	Withdrawable string `json:"withdrawable"`
	Invested     string `json:"invested"`
	Rewards      string `json:"rewards"`
	Currency     string `json:"currency"`
}

func WalletBalanceFromRaw(raw map[string]any) WalletBalance {
	return WalletBalance{
		Total:        rawStringDefault(raw, "0", "total"),
		Withdrawable: rawStringDefault(raw, "0", "withdrawable", "available"),
		Invested:     rawStringDefault(raw, "0", "invested"),
		Rewards:      rawStringDefault(raw, "0", "rewards"),
		Currency:     rawStringDefault(raw, "USDT", "currency"),
	}
}

// FuturesBalance — баланс фьючерсного кошелька.
type FuturesBalance struct {
	Balance       string `json:"balance"`
	LockedAmount  string `json:"locked_amount"`
	UnrealizedPnL string `json:"unrealized_pnl"`
	FirstTimeUser bool   `json:"first_time_user,omitempty"`
}

func FuturesBalanceFromRaw(raw map[string]any) FuturesBalance {
	return FuturesBalance{
		Balance:       rawStringDefault(raw, "0", "balance"),
		LockedAmount:  rawStringDefault(raw, "0", "locked_amount"),
		UnrealizedPnL: rawStringDefault(raw, "0", "unrealized_pnl", "pnl"),
		FirstTimeUser: rawBool(raw, "first_time_user", false),
	}
}

// Available = balance − locked. Производное, на каждом чтении.
func (b FuturesBalance) Available() string {
	bal, err1 := strconv.ParseFloat(b.Balance, 64)
	locked, err2 := strconv.ParseFloat(b.LockedAmount, 64)
	if err1 != nil || err2 != nil {
		return b.Balance
	}
	return strconv.FormatFloat(bal-locked, 'f', -1, 64)
}

// TransferResult — результат перевода между кошельками.
type TransferResult struct {
	Success       bool       `json:"success"`
	FromWallet    WalletType `json:"from_wallet"`
	ToWallet      WalletType `json:"to_wallet"`
	Amount        string     `json:"amount"`
	TransactionID string     `json:"transaction_id,omitempty"`
}

func TransferResultFromRaw(raw map[string]any) TransferResult {
	return TransferResult{
		Success:       rawBool(raw, "success", false),
		FromWallet:    WalletType(rawStringDefault(raw, string(WalletSpot), "from_wallet_type")),
		ToWallet:      WalletType(rawStringDefault(raw, string(WalletFutures), "to_wallet_type")),
		Amount:        rawStringDefault(raw, "0", "amount"),
		TransactionID: rawString(raw, "transaction_id"),
	}
}

type MarginType string

const MarginIsolated MarginType = "ISOLATED"

// LeverageSetting — текущие настройки плеча по инструменту.
type LeverageSetting struct {
	AssetID    string     `json:"asset_id"`
	Symbol     string     `json:"symbol,omitempty"`
	Leverage   string     `json:"leverage"`
	MarginType MarginType `json:"margin_type"`
}

func LeverageSettingFromRaw(raw map[string]any) LeverageSetting {
	return LeverageSetting{
		AssetID:    rawString(raw, "asset_id", "symbol"),
		Symbol:     rawString(raw, "symbol"),
		Leverage:   rawStringDefault(raw, "1", "leverage"),
		MarginType: MarginType(rawStringDefault(raw, string(MarginIsolated), "margin_type")),
	}
}
