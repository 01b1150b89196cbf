package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
	"coursepick/internal/services"
	"coursepick/pkg/middleware"
	"coursepick/pkg/utils"
)

type RecommendController struct {
	recommendService services.RecommendationServiceInterface
}

func NewRecommendController(recommendService services.RecommendationServiceInterface) *RecommendController {
	return &RecommendController{recommendService: recommendService}
}

// Recommend godoc
// @Summary Request a course schedule
// @Description Submits the session's form, or the FormState in the body when one is given.
// @Description Recommender errors and network failures are returned as data.error with status 200.
// @Tags Recommend
// @Accept json
// @Produce json
// @Param request body request_models.FormState false "Form to submit instead of the session form"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /api/recommend [post]
func (r *RecommendController) Recommend(c *gin.Context) {
	var (
		outcome response_models.Outcome
		err     error
	)

	if c.Request.ContentLength != 0 {
		var state request_models.FormState
		if bindErr := c.ShouldBindJSON(&state); bindErr != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
		outcome, err = r.recommendService.SubmitState(c.Request.Context(), state)
	} else {
		outcome, err = r.recommendService.Submit(c.Request.Context(), middleware.SessionID(c))
	}

	if err != nil {
		if errors.Is(err, utils.ErrInvalidForm) {
			c.JSON(http.StatusUnprocessableEntity, utils.APIResponse{
				Status:  "error",
				Code:    http.StatusUnprocessableEntity,
				Message: err.Error(),
				TraceID: c.GetString("trace_id"),
				Data:    outcome,
			})
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	msg := "Schedule generated successfully"
	if outcome.Failed() {
		msg = "Recommendation failed"
	}
	utils.RespondSuccess(c, outcome, msg)
}
