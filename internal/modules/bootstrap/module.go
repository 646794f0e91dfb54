package bootstrap

import (
	"context"

	"go.uber.org/fx"

	bootstrap "mudrex_agent/internal/modules/bootstrap/service"
	"mudrex_agent/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewWarmuper,
		),
		fx.Invoke(func(lc fx.Lifecycle, wu *bootstrap.Warmuper) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					// прогрев не блокирует старт: каталог доберется сам
					go func() {
						if err := wu.Warmup(context.Background()); err != nil {
							logger.Error("warmup error: %v", err)
						}
					}()
					return nil
				},
			})
		}),
	)
}
