package service

import (
	"context"

	"mudrex_agent/internal/models"
	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/internal/notify"
)

func registerOrderTools(r *Registry, c *mudrex.Client, n *notify.Telegram) {
	r.Register("create_market_order", func(ctx context.Context, args Args) (any, error) {
		p, err := orderParamsFromArgs(args)
		if err != nil {
			return nil, err
		}
		order, err := c.CreateMarketOrder(ctx, p)
		if err != nil {
			return nil, err
		}
		n.Sendf("📝 Маркет-ордер %s %s x%s: %s", order.Side, order.Quantity, order.Leverage, order.Symbol)
		return order, nil
	})

	r.Register("create_limit_order", func(ctx context.Context, args Args) (any, error) {
		p, err := orderParamsFromArgs(args)
		if err != nil {
			return nil, err
		}
		if p.Price == "" {
			price, err := args.Required("price")
			if err != nil {
				return nil, err
			}
			p.Price = price
		}
		order, err := c.CreateLimitOrder(ctx, p)
		if err != nil {
			return nil, err
		}
		n.Sendf("📝 Лимит-ордер %s %s @ %s: %s", order.Side, order.Quantity, order.Price, order.Symbol)
		return order, nil
	})

	r.Register("list_open_orders", func(ctx context.Context, args Args) (any, error) {
		return c.ListOpenOrders(ctx)
	})

	r.Register("get_order", func(ctx context.Context, args Args) (any, error) {
		orderID, err := args.Required("order_id")
		if err != nil {
			return nil, err
		}
		return c.Order(ctx, orderID)
	})

	r.Register("cancel_order", func(ctx context.Context, args Args) (any, error) {
		orderID, err := args.Required("order_id")
		if err != nil {
			return nil, err
		}
		if err := c.CancelOrder(ctx, orderID); err != nil {
			return nil, err
		}
		return map[string]any{"cancelled": true, "order_id": orderID}, nil
	})
}

func orderParamsFromArgs(args Args) (mudrex.OrderParams, error) {
	symbol := args.String("symbol")
	assetID := args.String("asset_id")
	if symbol == "" && assetID == "" {
		return mudrex.OrderParams{}, argRequiredError("symbol")
	}

	side, err := args.Required("side")
	if err != nil {
		return mudrex.OrderParams{}, err
	}
	quantity, err := args.Required("quantity")
	if err != nil {
		return mudrex.OrderParams{}, err
	}

	return mudrex.OrderParams{
		Symbol:          symbol,
		AssetID:         assetID,
		Side:            models.Side(side),
		Quantity:        quantity,
		Leverage:        args.StringDefault("leverage", "1"),
		Price:           args.String("price"),
		StoplossPrice:   args.String("stoploss_price"),
		TakeprofitPrice: args.String("takeprofit_price"),
		ReduceOnly:      args.Bool("reduce_only"),
	}, nil
}
