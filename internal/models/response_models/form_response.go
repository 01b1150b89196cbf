package response_models

import "coursepick/internal/models/request_models"

type FormResponse struct {
	SessionID string                   `json:"session_id"`
	State     request_models.FormState `json:"state"`
	Loading   bool                     `json:"loading"`
	Outcome   *Outcome                 `json:"outcome,omitempty"`
}

type ToggleSubjectResponse struct {
	Changed bool                     `json:"changed"`
	State   request_models.FormState `json:"state"`
}

type PlanningOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type OptionsResponse struct {
	PlanningTypes        []PlanningOption `json:"planning_types"`
	Subjects             []string         `json:"subjects"`
	MaxPreferredSubjects int              `json:"max_preferred_subjects"`
}
