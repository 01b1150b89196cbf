package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursepick/internal/models/request_models"
	"coursepick/internal/services"
	"coursepick/pkg/middleware"
	"coursepick/pkg/utils"
)

type FormController struct {
	formService services.FormServiceInterface
}

func NewFormController(formService services.FormServiceInterface) *FormController {
	return &FormController{formService: formService}
}

// Options godoc
// @Summary Form options
// @Description Planning types and the preferred subject catalogue
// @Tags Form
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/options [get]
func (f *FormController) Options(c *gin.Context) {
	utils.RespondSuccess(c, f.formService.Options(), "Fetched form options successfully")
}

// GetForm godoc
// @Summary Current form
// @Description Form state, loading flag and last outcome of the caller's session
// @Tags Form
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/form [get]
func (f *FormController) GetForm(c *gin.Context) {
	form, err := f.formService.GetForm(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, form, "Fetched form successfully")
}

// UpdateField godoc
// @Summary Update one form field
// @Tags Form
// @Accept json
// @Produce json
// @Param request body request_models.UpdateFieldRequest true "Field name and raw value"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/form/fields [patch]
func (f *FormController) UpdateField(c *gin.Context) {
	var req request_models.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	state, err := f.formService.UpdateField(c.Request.Context(), middleware.SessionID(c), req.Name, req.Value)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, state, "Field updated successfully")
}

// ToggleSubject godoc
// @Summary Toggle a preferred subject
// @Description Removes the subject when selected, adds it otherwise. Adding past three is a no-op reported as changed=false.
// @Tags Form
// @Accept json
// @Produce json
// @Param request body request_models.ToggleSubjectRequest true "Subject tag"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/form/subjects/toggle [post]
func (f *FormController) ToggleSubject(c *gin.Context) {
	var req request_models.ToggleSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	res, err := f.formService.ToggleSubject(c.Request.Context(), middleware.SessionID(c), req.Subject)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	msg := "Subject toggled successfully"
	if !res.Changed {
		msg = "Preferred subjects are full"
	}
	utils.RespondSuccess(c, res, msg)
}

// Reset godoc
// @Summary Reset the form
// @Tags Form
// @Success 200 {object} utils.APIResponse
// @Router /api/form/reset [post]
func (f *FormController) Reset(c *gin.Context) {
	if err := f.formService.Reset(c.Request.Context(), middleware.SessionID(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Form reset successfully")
}
