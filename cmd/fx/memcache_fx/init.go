package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"coursepick/internal/config"
	mem "coursepick/pkg/memcache"
)

var Module = fx.Provide(provideFormSessionStore)

// Redis when REDIS_URL is set, otherwise an in-process store swept once a minute.
func provideFormSessionStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (mem.FormSessionStore, error) {
	if cfg.RedisURL != "" {
		store, err := mem.NewRedisFormSessions(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return store.Close()
			},
		})
		log.Info("form sessions stored in redis")
		return store, nil
	}

	store := mem.NewFormSessions()
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							log.Debug("swept expired form sessions", zap.Int("count", n))
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
	log.Info("form sessions stored in memory")
	return store, nil
}
