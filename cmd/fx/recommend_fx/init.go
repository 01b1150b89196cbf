package recommend_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"coursepick/internal/clients/recommender"
	"coursepick/internal/config"
	"coursepick/internal/repositories"
	"coursepick/internal/services"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/metrics"
)

var Module = fx.Provide(
	provideRecommenderClient, provideRecommendationService, provideExportService)

func provideRecommenderClient(cfg config.Config, log *zap.Logger) services.RecommenderClient {
	retry := recommender.DefaultRetryConfig()
	retry.MaxAttempts = cfg.RecommenderMaxAttempts
	return recommender.New(cfg.RecommenderURL, cfg.RecommenderTimeout, retry, log)
}

func provideRecommendationService(
	client services.RecommenderClient,
	store mem.FormSessionStore,
	repo repositories.SubmissionRepositoryInterface,
	cfg config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) services.RecommendationServiceInterface {
	return services.NewRecommendationService(client, store, repo, services.RecommendationServiceConfig{
		SplitMode:  cfg.CourseSplitMode,
		SessionTTL: cfg.SessionTTL,
		LockTTL:    cfg.SubmitLockTTL,
	}, m, log)
}

func provideExportService(recommend services.RecommendationServiceInterface, m *metrics.Metrics) services.ExportServiceInterface {
	return services.NewExportService(recommend, m)
}
