package db_models

import "gorm.io/datatypes"

const (
	SubmissionStatusSuccess      = "success"
	SubmissionStatusAppError     = "app_error"
	SubmissionStatusNetworkError = "network_error"
)

// Submission records one request sent to the recommender and how it ended.
type Submission struct {
	BaseModel
	SessionID         string `gorm:"index"`
	Payload           datatypes.JSON
	PlanningType      string `gorm:"index"`
	PreferredSubjects TextArray
	Status            string `gorm:"index"`
	ErrorMessage      string
	SemesterCount     int
	TotalCredits      *float64
	DurationMs        int64
}
