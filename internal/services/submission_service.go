package services

import (
	"context"

	"go.uber.org/zap"

	"coursepick/internal/models/response_models"
	"coursepick/internal/repositories"
	"coursepick/pkg/utils"
)

const MaxSubmissionPageSize = 100

type SubmissionServiceInterface interface {
	// ListSubmissions pages through the submissions made from one session.
	ListSubmissions(ctx context.Context, sessionID string, page int, pageSize int) (response_models.SubmissionPage, error)
}

type SubmissionService struct {
	repo repositories.SubmissionRepositoryInterface
	log  *zap.Logger
}

func NewSubmissionService(repo repositories.SubmissionRepositoryInterface, log *zap.Logger) SubmissionServiceInterface {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionService{
		repo: repo,
		log:  log.Named("submissions"),
	}
}

func (s *SubmissionService) ListSubmissions(ctx context.Context, sessionID string, page int, pageSize int) (response_models.SubmissionPage, error) {
	if page < 1 {
		return response_models.SubmissionPage{}, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > MaxSubmissionPageSize {
		return response_models.SubmissionPage{}, utils.ErrInvalidPageSize
	}

	rows, total, err := s.repo.ListSubmissions(ctx, sessionID, page, pageSize)
	if err != nil {
		s.log.Error("list submissions", zap.Error(err))
		return response_models.SubmissionPage{}, utils.ErrDatabaseError
	}

	items := make([]response_models.SubmissionResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, response_models.SubmissionResponse{
			ID:                row.ID.String(),
			PlanningType:      row.PlanningType,
			PreferredSubjects: append([]string{}, row.PreferredSubjects...),
			Status:            row.Status,
			ErrorMessage:      row.ErrorMessage,
			SemesterCount:     row.SemesterCount,
			TotalCredits:      row.TotalCredits,
			DurationMs:        row.DurationMs,
			CreatedAt:         row.CreatedAt,
		})
	}

	return response_models.SubmissionPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}
