package mudrex_client

import (
	"go.uber.org/fx"

	"mudrex_agent/internal/modules/config"
	"mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/pkg/ratelimit"
)

func Module() fx.Option {
	return fx.Module("mudrex_client",
		fx.Provide(
			func(cfg *config.Config) *ratelimit.Budget {
				return ratelimit.New(ratelimit.Limits{
					PerSecond: cfg.RateLimit.PerSecond,
					PerMinute: cfg.RateLimit.PerMinute,
					PerHour:   cfg.RateLimit.PerHour,
					PerDay:    cfg.RateLimit.PerDay,
				})
			},
			func(cfg *config.Config, budget *ratelimit.Budget) *service.Client {
				return service.NewClient(service.Config{
					BaseURL:          cfg.Mudrex.BaseURL,
					APISecret:        cfg.Mudrex.APISecret,
					Timeout:          cfg.Mudrex.Timeout,
					RetryMaxAttempts: cfg.Retry.MaxAttempts,
					RetryBackoff:     cfg.Retry.Backoff,
				}, budget)
			},
			func(cfg *config.Config, c *service.Client) *service.Catalog {
				return service.NewCatalog(c, cfg.Mudrex.PageLimit, cfg.Mudrex.MaxPages, cfg.Mudrex.CatalogTTL)
			},
		),
		fx.Invoke(func(c *service.Client, cat *service.Catalog) {
			c.SetCatalog(cat)
		}),
	)
}
