package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursepick/internal/models/request_models"
	"coursepick/internal/services"
	"coursepick/pkg/middleware"
	"coursepick/pkg/utils"
)

type SubmissionController struct {
	submissionService services.SubmissionServiceInterface
}

func NewSubmissionController(submissionService services.SubmissionServiceInterface) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// ListSubmissions godoc
// @Summary List submissions
// @Description Paginated history of the caller session's requests to the recommender, newest first
// @Tags Submissions
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/submissions [get]
func (s *SubmissionController) ListSubmissions(c *gin.Context) {
	req := request_models.ListSubmissionsRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := s.submissionService.ListSubmissions(c.Request.Context(), middleware.SessionID(c), req.Page, req.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Fetched submissions successfully")
}
