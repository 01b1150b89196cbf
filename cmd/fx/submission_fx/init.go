package submission_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"coursepick/internal/repositories"
	"coursepick/internal/services"
)

var Module = fx.Provide(provideSubmissionService)

func provideSubmissionService(repo repositories.SubmissionRepositoryInterface, log *zap.Logger) services.SubmissionServiceInterface {
	return services.NewSubmissionService(repo, log)
}
