package toolserver

import (
	"context"
	"os"

	"go.uber.org/fx"

	auditsvc "mudrex_agent/internal/modules/audit/service"
	marketws "mudrex_agent/internal/modules/marketws/service"
	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/internal/modules/toolserver/service"
	"mudrex_agent/internal/notify"
	"mudrex_agent/pkg/logger"
)

// Module собирает реестр инструментов и stdio-диспетчер.
func Module() fx.Option {
	return fx.Module("toolserver",
		fx.Provide(
			func(audit *auditsvc.Journal) *service.Registry {
				return service.NewRegistry(audit)
			},
			func(r *service.Registry) *service.Dispatcher {
				return service.NewDispatcher(r, os.Stdin, os.Stdout)
			},
		),
		fx.Invoke(
			func(r *service.Registry, c *mudrex.Client, cat *mudrex.Catalog, ws *marketws.Stream, n *notify.Telegram) {
				service.RegisterAll(r, c, cat, ws, n)
				logger.Info("tool registry ready: %d tools", len(r.Names()))
			},
			func(lc fx.Lifecycle, sh fx.Shutdowner, d *service.Dispatcher) {
				ctx, cancel := context.WithCancel(context.Background())
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go func() {
							if err := d.Run(ctx); err != nil && ctx.Err() == nil {
								logger.Error("dispatcher stopped: %v", err)
							}
							// конец stdin — хост ушел, гасим приложение
							_ = sh.Shutdown()
						}()
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						return nil
					},
				})
			},
		),
	)
}
