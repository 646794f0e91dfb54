package service

import (
	"context"

	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/internal/notify"
)

func registerPositionTools(r *Registry, c *mudrex.Client, n *notify.Telegram) {
	r.Register("list_open_positions", func(ctx context.Context, args Args) (any, error) {
		positions, err := c.ListOpenPositions(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]map[string]any, 0, len(positions))
		for _, p := range positions {
			row := map[string]any{
				"position_id":    p.PositionID,
				"symbol":         p.Symbol,
				"side":           p.Side,
				"quantity":       p.Quantity,
				"entry_price":    p.EntryPrice,
				"mark_price":     p.MarkPrice,
				"leverage":       p.Leverage,
				"margin":         p.Margin,
				"unrealized_pnl": p.UnrealizedPnL,
				"pnl_percent":    p.PnLPercent(),
			}
			if exp, err := p.Exposure(); err == nil {
				row["exposure"] = exp
			}
			out = append(out, row)
		}
		return out, nil
	})

	r.Register("get_position", func(ctx context.Context, args Args) (any, error) {
		positionID, err := args.Required("position_id")
		if err != nil {
			return nil, err
		}
		return c.Position(ctx, positionID)
	})

	r.Register("close_position", func(ctx context.Context, args Args) (any, error) {
		positionID, err := args.Required("position_id")
		if err != nil {
			return nil, err
		}
		if err := c.ClosePosition(ctx, positionID); err != nil {
			return nil, err
		}
		n.Sendf("✅ Позиция закрыта: %s", positionID)
		return map[string]any{"closed": true, "position_id": positionID}, nil
	})

	r.Register("set_position_stoploss", func(ctx context.Context, args Args) (any, error) {
		positionID, err := args.Required("position_id")
		if err != nil {
			return nil, err
		}
		price, err := args.Required("price")
		if err != nil {
			return nil, err
		}
		if err := c.SetRiskOrder(ctx, positionID, price, ""); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "position_id": positionID, "stoploss_price": price}, nil
	})

	r.Register("set_position_takeprofit", func(ctx context.Context, args Args) (any, error) {
		positionID, err := args.Required("position_id")
		if err != nil {
			return nil, err
		}
		price, err := args.Required("price")
		if err != nil {
			return nil, err
		}
		if err := c.SetRiskOrder(ctx, positionID, "", price); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "position_id": positionID, "takeprofit_price": price}, nil
	})

	r.Register("set_position_risk_levels", func(ctx context.Context, args Args) (any, error) {
		positionID, err := args.Required("position_id")
		if err != nil {
			return nil, err
		}
		sl := args.String("stoploss_price")
		tp := args.String("takeprofit_price")
		if err := c.SetRiskOrder(ctx, positionID, sl, tp); err != nil {
			return nil, err
		}
		return map[string]any{
			"success":          true,
			"position_id":      positionID,
			"stoploss_price":   sl,
			"takeprofit_price": tp,
		}, nil
	})
}
