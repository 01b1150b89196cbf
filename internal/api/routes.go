package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coursepick/internal/api/controllers"
	"coursepick/pkg/metrics"
	"coursepick/pkg/middleware"
)

type RouterConfig struct {
	CORSAllowOrigin string
	SessionTTL      time.Duration
}

type Controllers struct {
	Page       *controllers.PageController
	Form       *controllers.FormController
	Recommend  *controllers.RecommendController
	Export     *controllers.ExportController
	Submission *controllers.SubmissionController
	Health     *controllers.HealthController
}

// NewRouter builds the engine. gather serves /metrics; nil leaves the route out.
func NewRouter(cfg RouterConfig, ctl Controllers, m *metrics.Metrics, gather prometheus.Gatherer, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(m.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowOrigin))

	RegisterRoutes(r, cfg, ctl)

	r.GET("/healthz", ctl.Health.Healthz)
	if gather != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gather, promhttp.HandlerOpts{})))
	}
	return r
}

func RegisterRoutes(r *gin.Engine, cfg RouterConfig, ctl Controllers) {
	session := middleware.SessionMiddleware(cfg.SessionTTL)

	page := r.Group("/", session)
	page.GET("/", ctl.Page.Index)
	page.POST("/", ctl.Page.Submit)

	apiGroup := r.Group("/api", session)
	apiGroup.GET("/options", ctl.Form.Options)

	formGroup := apiGroup.Group("/form")
	formGroup.GET("", ctl.Form.GetForm)
	formGroup.PATCH("/fields", ctl.Form.UpdateField)
	formGroup.POST("/subjects/toggle", ctl.Form.ToggleSubject)
	formGroup.POST("/reset", ctl.Form.Reset)

	apiGroup.POST("/recommend", ctl.Recommend.Recommend)
	apiGroup.GET("/schedule/export", ctl.Export.ExportSchedule)
	apiGroup.GET("/submissions", ctl.Submission.ListSubmissions)
}
