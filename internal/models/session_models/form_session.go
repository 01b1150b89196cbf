package session_models

import (
	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
)

// FormSession is one browser's form plus the outcome of its last submission.
type FormSession struct {
	ID        string                   `json:"id"`
	State     request_models.FormState `json:"state"`
	Outcome   *response_models.Outcome `json:"outcome,omitempty"`
	UpdatedAt int64                    `json:"updated_at"`
}

func New(id string) *FormSession {
	return &FormSession{
		ID:    id,
		State: request_models.DefaultFormState(),
	}
}
