package response_models

type SubmissionResponse struct {
	ID                string   `json:"id"`
	PlanningType      string   `json:"planning_type"`
	PreferredSubjects []string `json:"preferred_subjects"`
	Status            string   `json:"status"`
	ErrorMessage      string   `json:"error_message,omitempty"`
	SemesterCount     int      `json:"semester_count"`
	TotalCredits      *float64 `json:"total_credits,omitempty"`
	DurationMs        int64    `json:"duration_ms"`
	CreatedAt         int64    `json:"created_at"`
}

type SubmissionPage struct {
	Items    []SubmissionResponse `json:"items"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Total    int64                `json:"total"`
}
