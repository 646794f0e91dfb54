package audit

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"mudrex_agent/internal/modules/audit/service"
	"mudrex_agent/internal/modules/config"
	"mudrex_agent/pkg/db"
	"mudrex_agent/pkg/logger"
)

// Module включает журнал вызовов, только когда настроен db_dsn; без него
// провайдер отдает nil и вызовы не журналируются.
func Module() fx.Option {
	return fx.Module("audit",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) (*service.Journal, error) {
				if cfg.DB == "" {
					logger.Info("audit journal disabled: no db_dsn configured")
					return (*service.Journal)(nil), nil
				}

				ctx := context.Background()
				pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
				if err != nil {
					return nil, errors.Wrap(err, "create audit pool")
				}
				if err := pool.Ping(ctx); err != nil {
					return nil, errors.Wrap(err, "ping audit db")
				}

				manager := db.NewPgTxManager(pool)
				journal := service.NewJournal(manager)

				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return journal.EnsureSchema(ctx)
					},
					OnStop: func(context.Context) error {
						manager.Close()
						return nil
					},
				})
				return journal, nil
			},
		),
	)
}
