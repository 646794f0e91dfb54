package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"mudrex_agent/internal/modules/audit"
	"mudrex_agent/internal/modules/bootstrap"
	appconfig "mudrex_agent/internal/modules/config"
	"mudrex_agent/internal/modules/health"
	"mudrex_agent/internal/modules/marketws"
	"mudrex_agent/internal/modules/mudrex_client"
	"mudrex_agent/internal/modules/toolserver"
	"mudrex_agent/internal/notify"
	"mudrex_agent/pkg/logger"
	"mudrex_agent/pkg/tracing"
)

const serviceName = "mudrex_agent"

func main() {
	logger.SetServiceName(serviceName)
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			// нотифайер опционален: без токена все отправки — no-op
			func(cfg *appconfig.Config) (*notify.Telegram, error) {
				return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
		),
		appconfig.Module(),
		mudrex_client.Module(),
		marketws.Module(),
		audit.Module(),
		bootstrap.Module(),
		health.Module(),
		toolserver.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *appconfig.Config) {
			if cfg.Tracing.Host == "" {
				return
			}
			closer := func() {}
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					_, c, err := tracing.InitTracer(tracing.Config{
						Host: cfg.Tracing.Host,
						Port: cfg.Tracing.Port,
					})
					if err != nil {
						// трассировка не критична для торговли
						logger.Error("tracer init: %v", err)
						return nil
					}
					closer = c
					return nil
				},
				OnStop: func(context.Context) error {
					closer()
					return nil
				},
			})
		}),
	)
	app.Run()
}
