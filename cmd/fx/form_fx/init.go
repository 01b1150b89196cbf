package form_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"coursepick/internal/config"
	"coursepick/internal/services"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/metrics"
)

var Module = fx.Provide(provideFormService)

func provideFormService(store mem.FormSessionStore, cfg config.Config, m *metrics.Metrics, log *zap.Logger) services.FormServiceInterface {
	return services.NewFormService(store, cfg.SessionTTL, m, log)
}
