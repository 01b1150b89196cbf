package repositories

import (
	"context"

	"gorm.io/gorm"

	"coursepick/internal/models/db_models"
)

type SubmissionRepositoryInterface interface {
	CreateSubmission(ctx context.Context, submission *db_models.Submission) error
	ListSubmissions(ctx context.Context, sessionID string, page int, pageSize int) ([]db_models.Submission, int64, error)
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepositoryInterface {
	return &SubmissionRepository{db: db}
}

type SubmissionRepository struct {
	db *gorm.DB
}

func (s *SubmissionRepository) CreateSubmission(ctx context.Context, submission *db_models.Submission) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(submission).Error; err != nil {
			return err
		}
		return nil
	})
}

// ListSubmissions returns one page of a session's submissions, newest first, and the
// session's total row count.
func (s *SubmissionRepository) ListSubmissions(ctx context.Context, sessionID string, page int, pageSize int) ([]db_models.Submission, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&db_models.Submission{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var submissions []db_models.Submission
	err = s.db.WithContext(ctx).Scopes(paginate(page, pageSize)).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// NoopSubmissionRepository stands in when no database is configured. Writes are
// dropped and listings are empty.
type NoopSubmissionRepository struct{}

func (NoopSubmissionRepository) CreateSubmission(context.Context, *db_models.Submission) error {
	return nil
}

func (NoopSubmissionRepository) ListSubmissions(context.Context, string, int, int) ([]db_models.Submission, int64, error) {
	return []db_models.Submission{}, 0, nil
}
