package request_models

// RecommendPayload is the JSON body posted to the recommender.
// internship_semester is always sent (null when not interning); target credits are
// only sent for the Balanced Workload plan.
type RecommendPayload struct {
	IsFreshman               bool         `json:"is_freshman"`
	CurrentGrade             int          `json:"current_grade"`
	CurrentSemester          int          `json:"current_semester"`
	CompletedCourses         []string     `json:"completed_courses"`
	StudyAbroad              bool         `json:"study_abroad"`
	Internship               bool         `json:"internship"`
	InternshipSemester       *int         `json:"internship_semester"`
	PlanningType             PlanningType `json:"planning_type"`
	TargetCreditsPerSemester *int         `json:"target_credits_per_semester,omitempty"`
	PreferredSubjects        []string     `json:"preferred_subjects"`
	UpperboundCredits        int          `json:"upperbound_credits"`
}
