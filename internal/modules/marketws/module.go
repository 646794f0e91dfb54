package marketws

import (
	"context"

	"go.uber.org/fx"

	"mudrex_agent/internal/modules/config"
	"mudrex_agent/internal/modules/marketws/service"
)

// Module поднимает стример mark price.
func Module() fx.Option {
	return fx.Module("marketws",
		fx.Provide(
			func(cfg *config.Config) *service.Stream {
				return service.NewStream(cfg.Mudrex.WSURL)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, s *service.Stream) {
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go s.Run(ctx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
