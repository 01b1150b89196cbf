package request_models

type UpdateFieldRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

type ToggleSubjectRequest struct {
	Subject string `json:"subject" binding:"required"`
}

type ListSubmissionsRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}
