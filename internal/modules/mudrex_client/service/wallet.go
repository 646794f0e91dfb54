package service

import (
	"context"
	"strconv"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/internal/models"
)

func (c *Client) SpotBalance(ctx context.Context) (models.WalletBalance, error) {
	raw, err := c.get(ctx, "/wallet/balance", nil)
	if err != nil {
		return models.WalletBalance{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.WalletBalance{}, err
	}
	return models.WalletBalanceFromRaw(rec), nil
}

func (c *Client) FuturesBalance(ctx context.Context) (models.FuturesBalance, error) {
	raw, err := c.get(ctx, "/futures/wallet/balance", nil)
	if err != nil {
		return models.FuturesBalance{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.FuturesBalance{}, err
	}
	return models.FuturesBalanceFromRaw(rec), nil
}

func (c *Client) TransferToFutures(ctx context.Context, amount string) (models.TransferResult, error) {
	return c.transfer(ctx, amount, models.WalletSpot, models.WalletFutures)
}

func (c *Client) TransferToSpot(ctx context.Context, amount string) (models.TransferResult, error) {
	return c.transfer(ctx, amount, models.WalletFutures, models.WalletSpot)
}

func (c *Client) transfer(ctx context.Context, amount string, from, to models.WalletType) (models.TransferResult, error) {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil || v <= 0 {
		return models.TransferResult{}, apierr.Validation("transfer amount must be a positive number, got " + strconv.Quote(amount))
	}

	raw, err := c.post(ctx, "/wallet/transfer", map[string]any{
		"amount":           v,
		"from_wallet_type": string(from),
		"to_wallet_type":   string(to),
	})
	if err != nil {
		return models.TransferResult{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.TransferResult{}, err
	}
	res := models.TransferResultFromRaw(rec)
	if res.Amount == "0" {
		res.Amount = amount
	}
	return res, nil
}
