package service

import (
	"context"
	"net/url"
	"strconv"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/internal/models"
)

func (c *Client) Leverage(ctx context.Context, symbol string) (models.LeverageSetting, error) {
	raw, err := c.get(ctx, "/futures/"+url.PathEscape(symbol)+"/leverage", nil)
	if err != nil {
		return models.LeverageSetting{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.LeverageSetting{}, err
	}
	setting := models.LeverageSettingFromRaw(rec)
	if setting.Symbol == "" {
		setting.Symbol = symbol
	}
	return setting, nil
}

// SetLeverage проверяет запрошенное плечо против границ инструмента, когда
// каталог уже собран; дальше решает апстрим.
func (c *Client) SetLeverage(ctx context.Context, symbol, leverage string) (models.LeverageSetting, error) {
	lev, err := strconv.ParseFloat(leverage, 64)
	if err != nil || lev < 1 {
		return models.LeverageSetting{}, apierr.Validation("leverage must be a number >= 1, got " + strconv.Quote(leverage))
	}

	if c.catalog != nil && c.catalog.Ready() {
		inst, err := c.catalog.Get(ctx, symbol)
		if err != nil {
			return models.LeverageSetting{}, err
		}
		if maxLev := inst.MaxLeverageValue(); maxLev > 0 && lev > maxLev {
			return models.LeverageSetting{}, apierr.Validation(
				"leverage " + leverage + " exceeds maximum " + inst.MaxLeverage + " for " + symbol)
		}
	}

	raw, err := c.post(ctx, "/futures/"+url.PathEscape(symbol)+"/leverage", map[string]any{
		"leverage":    lev,
		"margin_type": string(models.MarginIsolated),
	})
	if err != nil {
		return models.LeverageSetting{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.LeverageSetting{}, err
	}
	setting := models.LeverageSettingFromRaw(rec)
	if setting.Symbol == "" {
		setting.Symbol = symbol
	}
	return setting, nil
}
