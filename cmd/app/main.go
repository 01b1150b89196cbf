package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"coursepick/cmd/fx/config_fx"
	"coursepick/cmd/fx/controllers_fx"
	"coursepick/cmd/fx/db_fx"
	"coursepick/cmd/fx/form_fx"
	"coursepick/cmd/fx/logger_fx"
	"coursepick/cmd/fx/memcache_fx"
	"coursepick/cmd/fx/metrics_fx"
	"coursepick/cmd/fx/recommend_fx"
	"coursepick/cmd/fx/submission_fx"
	"coursepick/internal/api"
	"coursepick/internal/api/controllers"
	"coursepick/internal/config"
	"coursepick/pkg/metrics"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		form_fx.Module,
		recommend_fx.Module,
		submission_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("Starting HTTP server",
					zap.String("addr", srv.Addr),
					zap.String("recommender", cfg.RecommenderURL),
					zap.String("split_mode", cfg.CourseSplitMode))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config     config.Config
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Log        *zap.Logger
	Page       *controllers.PageController
	Form       *controllers.FormController
	Recommend  *controllers.RecommendController
	Export     *controllers.ExportController
	Submission *controllers.SubmissionController
	Health     *controllers.HealthController
}

func ProvideRouter(p routerParams) *gin.Engine {
	gin.SetMode(p.Config.GinMode)

	return api.NewRouter(api.RouterConfig{
		CORSAllowOrigin: p.Config.CORSAllowOrigin,
		SessionTTL:      p.Config.SessionTTL,
	}, api.Controllers{
		Page:       p.Page,
		Form:       p.Form,
		Recommend:  p.Recommend,
		Export:     p.Export,
		Submission: p.Submission,
		Health:     p.Health,
	}, p.Metrics, p.Gatherer, p.Log)
}
