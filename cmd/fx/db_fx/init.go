package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"coursepick/internal/config"
	"coursepick/internal/infra"
	"coursepick/internal/repositories"
)

var Module = fx.Provide(provideSubmissionRepo)

// Without POSTGRES_URL submissions are not recorded.
func provideSubmissionRepo(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (repositories.SubmissionRepositoryInterface, error) {
	if cfg.PostgresURL == "" {
		log.Warn("POSTGRES_URL not set, submission history disabled")
		return repositories.NoopSubmissionRepository{}, nil
	}

	db, err := infra.InitPostgresql(cfg.PostgresURL, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return repositories.NewSubmissionRepository(db), nil
}
