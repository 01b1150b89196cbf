package controllers_fx

import (
	"go.uber.org/fx"

	"coursepick/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPageController),
	fx.Provide(controllers.NewFormController),
	fx.Provide(controllers.NewRecommendController),
	fx.Provide(controllers.NewExportController),
	fx.Provide(controllers.NewSubmissionController),
	fx.Provide(controllers.NewHealthController))
