package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursepick/internal/services"
	"coursepick/pkg/middleware"
	"coursepick/pkg/utils"
)

type ExportController struct {
	exportService services.ExportServiceInterface
}

func NewExportController(exportService services.ExportServiceInterface) *ExportController {
	return &ExportController{exportService: exportService}
}

// ExportSchedule godoc
// @Summary Download the last schedule
// @Tags Export
// @Produce octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schedule/export [get]
func (e *ExportController) ExportSchedule(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	file, err := e.exportService.ExportSchedule(c.Request.Context(), middleware.SessionID(c), format)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
