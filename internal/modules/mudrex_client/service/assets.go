package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mudrex_agent/internal/models"
)

// FetchPage — реализация PagedFetcher поверх GET /futures.
func (c *Client) FetchPage(ctx context.Context, offset, limit int) ([]map[string]any, bool, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	raw, err := c.get(ctx, "/futures", q)
	if err != nil {
		return nil, false, err
	}

	records, err := decodeList(raw)
	if err != nil {
		return nil, false, err
	}

	// явный признак последней страницы, если апстрим его отдает
	last := false
	if meta, err := decodeObject(raw); err == nil {
		if v, ok := meta["is_last"].(bool); ok {
			last = v
		}
	}
	return records, last, nil
}

// Asset тянет один инструмент напрямую у апстрима (symbol или asset_id в
// пути). Каталог этим не пользуется; нужно ордерам, когда снапшота еще нет.
func (c *Client) Asset(ctx context.Context, identifier string) (models.Instrument, error) {
	raw, err := c.get(ctx, "/futures/"+url.PathEscape(identifier), nil)
	if err != nil {
		return models.Instrument{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Instrument{}, err
	}
	inst, err := models.InstrumentFromRaw(rec)
	if err != nil {
		return models.Instrument{}, fmt.Errorf("asset %s: %w", identifier, err)
	}
	return inst, nil
}

// Price — текущая цена по символу (REST-путь; быстрый путь через ws живет
// выше).
func (c *Client) Price(ctx context.Context, symbol string) (string, error) {
	inst, err := c.Asset(ctx, symbol)
	if err != nil {
		return "", err
	}
	if inst.Price == "" {
		return "0", nil
	}
	return inst.Price, nil
}
