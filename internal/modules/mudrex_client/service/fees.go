package service

import (
	"context"
	"net/url"
	"strconv"

	"mudrex_agent/internal/models"
)

// FeeHistory — история комиссий, полная offset/limit-развертка; symbol
// фильтрует на стороне апстрима, limit>0 режет результат на клиенте.
func (c *Client) FeeHistory(ctx context.Context, symbol string, limit int) ([]models.FeeRecord, error) {
	extra := url.Values{}
	if symbol != "" {
		extra.Set("symbol", symbol)
	}

	records, err := c.sweepPages(ctx, "/futures/fee/history", extra)
	if err != nil {
		return nil, err
	}

	fees := make([]models.FeeRecord, 0, len(records))
	for _, rec := range records {
		fees = append(fees, models.FeeRecordFromRaw(rec))
	}
	if limit > 0 && len(fees) > limit {
		fees = fees[:limit]
	}
	return fees, nil
}

// TotalFees — сумма комиссий (опционально по символу).
func (c *Client) TotalFees(ctx context.Context, symbol string) (float64, int, error) {
	fees, err := c.FeeHistory(ctx, symbol, 0)
	if err != nil {
		return 0, 0, err
	}

	var total float64
	for _, f := range fees {
		if v, err := strconv.ParseFloat(f.FeeAmount, 64); err == nil {
			total += v
		}
	}
	return total, len(fees), nil
}
