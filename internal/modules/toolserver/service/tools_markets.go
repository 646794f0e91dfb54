package service

import (
	"context"
	"time"

	marketws "mudrex_agent/internal/modules/marketws/service"
	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
)

// свежесть ws-тика, после которой цена берется по REST
const priceMaxAge = 5 * time.Second

func registerMarketTools(r *Registry, c *mudrex.Client, cat *mudrex.Catalog, ws *marketws.Stream) {
	r.Register("list_markets", func(ctx context.Context, args Args) (any, error) {
		return cat.ListAll(ctx, args.Bool("refresh"))
	})

	r.Register("get_market", func(ctx context.Context, args Args) (any, error) {
		symbol, err := args.Required("symbol")
		if err != nil {
			return nil, err
		}
		return cat.Get(ctx, symbol)
	})

	r.Register("search_markets", func(ctx context.Context, args Args) (any, error) {
		query, err := args.Required("query")
		if err != nil {
			return nil, err
		}
		return cat.Search(ctx, query)
	})

	r.Register("get_price", func(ctx context.Context, args Args) (any, error) {
		symbol, err := args.Required("symbol")
		if err != nil {
			return nil, err
		}

		// быстрый путь: свежий тик из ws-стрима, иначе REST
		if ws != nil {
			if price, ok := ws.LatestPrice(symbol, priceMaxAge); ok {
				return map[string]any{"symbol": symbol, "price": price, "source": "stream"}, nil
			}
		}
		price, err := c.Price(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return map[string]any{"symbol": symbol, "price": price, "source": "rest"}, nil
	})

	r.Register("get_leverage", func(ctx context.Context, args Args) (any, error) {
		symbol, err := args.Required("symbol")
		if err != nil {
			return nil, err
		}
		return c.Leverage(ctx, symbol)
	})

	r.Register("set_leverage", func(ctx context.Context, args Args) (any, error) {
		symbol, err := args.Required("symbol")
		if err != nil {
			return nil, err
		}
		leverage, err := args.Required("leverage")
		if err != nil {
			return nil, err
		}
		return c.SetLeverage(ctx, symbol, leverage)
	})
}
