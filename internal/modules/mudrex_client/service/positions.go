package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/internal/models"
)

// ListOpenPositions всегда ходит на биржу: позиции не кэшируются нигде,
// иначе закрытая снаружи позиция продолжает "жить" локально.
func (c *Client) ListOpenPositions(ctx context.Context) ([]models.Position, error) {
	raw, err := c.get(ctx, "/futures/positions", nil)
	if err != nil {
		return nil, err
	}
	records, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(records))
	for _, rec := range records {
		p, err := models.PositionFromRaw(rec)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}

func (c *Client) Position(ctx context.Context, positionID string) (models.Position, error) {
	raw, err := c.get(ctx, "/futures/positions/"+url.PathEscape(positionID), nil)
	if err != nil {
		return models.Position{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Position{}, err
	}
	return models.PositionFromRaw(rec)
}

func (c *Client) ClosePosition(ctx context.Context, positionID string) error {
	_, err := c.post(ctx, "/futures/positions/"+url.PathEscape(positionID)+"/close", nil)
	return err
}

// CloseAllPositions закрывает открытые позиции; фильтры: только по символу
// и/или только прибыльные. Возвращает число закрытых.
func (c *Client) CloseAllPositions(ctx context.Context, symbol string, profitableOnly bool) (int, error) {
	positions, err := c.ListOpenPositions(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, p := range positions {
		if symbol != "" && p.Symbol != symbol {
			continue
		}
		if profitableOnly && !p.IsProfitable() {
			continue
		}
		if err := c.ClosePosition(ctx, p.PositionID); err != nil {
			return closed, fmt.Errorf("close position %s: %w", p.PositionID, err)
		}
		closed++
	}
	return closed, nil
}

// ClosePartialPosition закрывает часть позиции.
func (c *Client) ClosePartialPosition(ctx context.Context, positionID, quantity string) (models.Position, error) {
	v, err := strconv.ParseFloat(quantity, 64)
	if err != nil || v <= 0 {
		return models.Position{}, apierr.Validation("partial close quantity must be a positive number, got " + strconv.Quote(quantity))
	}

	raw, err := c.post(ctx, "/futures/positions/"+url.PathEscape(positionID)+"/close/partial", map[string]any{
		"quantity": v,
	})
	if err != nil {
		return models.Position{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Position{}, err
	}
	return models.PositionFromRaw(rec)
}

// ReversePosition разворачивает позицию (LONG -> SHORT того же размера и
// наоборот).
func (c *Client) ReversePosition(ctx context.Context, positionID string) (models.Position, error) {
	raw, err := c.post(ctx, "/futures/positions/"+url.PathEscape(positionID)+"/reverse", nil)
	if err != nil {
		return models.Position{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Position{}, err
	}
	return models.PositionFromRaw(rec)
}

// SetRiskOrder выставляет SL и/или TP на позицию.
func (c *Client) SetRiskOrder(ctx context.Context, positionID, stoplossPrice, takeprofitPrice string) error {
	body, err := riskOrderBody(stoplossPrice, takeprofitPrice)
	if err != nil {
		return err
	}
	_, err = c.post(ctx, "/futures/positions/"+url.PathEscape(positionID)+"/riskorder", body)
	return err
}

// EditRiskOrder правит уже выставленные SL/TP.
func (c *Client) EditRiskOrder(ctx context.Context, positionID, stoplossPrice, takeprofitPrice string) error {
	body, err := riskOrderBody(stoplossPrice, takeprofitPrice)
	if err != nil {
		return err
	}
	_, err = c.patch(ctx, "/futures/positions/"+url.PathEscape(positionID)+"/riskorder", body)
	return err
}

func riskOrderBody(stoplossPrice, takeprofitPrice string) (map[string]any, error) {
	body := map[string]any{}
	if stoplossPrice != "" {
		v, err := strconv.ParseFloat(stoplossPrice, 64)
		if err != nil || v <= 0 {
			return nil, apierr.Validation("stoploss price must be a positive number, got " + strconv.Quote(stoplossPrice))
		}
		body["is_stoploss"] = true
		body["stoploss_price"] = v
	}
	if takeprofitPrice != "" {
		v, err := strconv.ParseFloat(takeprofitPrice, 64)
		if err != nil || v <= 0 {
			return nil, apierr.Validation("takeprofit price must be a positive number, got " + strconv.Quote(takeprofitPrice))
		}
		body["is_takeprofit"] = true
		body["takeprofit_price"] = v
	}
	if len(body) == 0 {
		return nil, apierr.Validation("risk order requires stoploss and/or takeprofit price")
	}
	return body, nil
}

// PositionHistory — закрытые позиции, полная offset/limit-развертка.
func (c *Client) PositionHistory(ctx context.Context, limit int) ([]models.Position, error) {
	records, err := c.sweepPages(ctx, "/futures/positions/history", nil)
	if err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(records))
	for _, rec := range records {
		p, err := models.PositionFromRaw(rec)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if limit > 0 && len(positions) > limit {
		positions = positions[:limit]
	}
	return positions, nil
}

// PnLSummary — агрегат по открытым позициям. Считается из свежего списка,
// значения производные и нигде не хранятся.
type PnLSummary struct {
	TotalUnrealizedPnL float64 `json:"total_unrealized_pnl"`
	TotalMargin        float64 `json:"total_margin"`
	TotalExposure      float64 `json:"total_exposure"`
	OpenPositions      int     `json:"open_positions"`
	Profitable         int     `json:"profitable"`
	Losing             int     `json:"losing"`
}

func (c *Client) TotalPnL(ctx context.Context) (PnLSummary, error) {
	positions, err := c.ListOpenPositions(ctx)
	if err != nil {
		return PnLSummary{}, err
	}

	var s PnLSummary
	s.OpenPositions = len(positions)
	for _, p := range positions {
		if pnl, err := strconv.ParseFloat(p.UnrealizedPnL, 64); err == nil {
			s.TotalUnrealizedPnL += pnl
			if pnl > 0 {
				s.Profitable++
			} else if pnl < 0 {
				s.Losing++
			}
		}
		if margin, err := strconv.ParseFloat(p.Margin, 64); err == nil {
			s.TotalMargin += margin
		}
		if exp, err := p.Exposure(); err == nil {
			s.TotalExposure += exp
		}
	}
	return s, nil
}
