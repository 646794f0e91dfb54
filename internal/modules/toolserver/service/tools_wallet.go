package service

import (
	"context"

	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/internal/notify"
)

func registerWalletTools(r *Registry, c *mudrex.Client, n *notify.Telegram) {
	r.Register("get_spot_balance", func(ctx context.Context, args Args) (any, error) {
		balance, err := c.SpotBalance(ctx)
		if err != nil {
			return nil, err
		}
		return balance, nil
	})

	r.Register("get_futures_balance", func(ctx context.Context, args Args) (any, error) {
		balance, err := c.FuturesBalance(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"balance":        balance.Balance,
			"locked_amount":  balance.LockedAmount,
			"available":      balance.Available(),
			"unrealized_pnl": balance.UnrealizedPnL,
		}, nil
	})

	r.Register("transfer_to_futures", func(ctx context.Context, args Args) (any, error) {
		amount, err := args.Required("amount")
		if err != nil {
			return nil, err
		}
		res, err := c.TransferToFutures(ctx, amount)
		if err != nil {
			return nil, err
		}
		n.Sendf("💸 Перевод %s USDT: spot → futures", res.Amount)
		return res, nil
	})

	r.Register("transfer_to_spot", func(ctx context.Context, args Args) (any, error) {
		amount, err := args.Required("amount")
		if err != nil {
			return nil, err
		}
		res, err := c.TransferToSpot(ctx, amount)
		if err != nil {
			return nil, err
		}
		n.Sendf("💸 Перевод %s USDT: futures → spot", res.Amount)
		return res, nil
	})
}
