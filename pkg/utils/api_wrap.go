package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps sentinel errors to HTTP responses. Anything unknown is
// logged and reported as a 500 without leaking the cause.
func HandleServiceError(c *gin.Context, err error) {
	code, message := StatusFor(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("service error",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	RespondError(c, code, message)
}

// StatusFor returns the HTTP status and public message for a service error.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnknownField):
		return http.StatusBadRequest, "Unknown form field"
	case errors.Is(err, ErrInvalidFieldValue):
		return http.StatusBadRequest, "Invalid value for form field"
	case errors.Is(err, ErrUnknownSubject):
		return http.StatusBadRequest, "Unknown preferred subject"
	case errors.Is(err, ErrInvalidForm):
		return http.StatusUnprocessableEntity, "Form state is invalid"
	case errors.Is(err, ErrSubmissionInFlight):
		return http.StatusConflict, "A submission is already in progress"
	case errors.Is(err, ErrNoSchedule):
		return http.StatusNotFound, "No schedule to export"
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest, "Export format must be csv or xlsx"
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Page must be greater than 0"
	case errors.Is(err, ErrInvalidPageSize):
		return http.StatusBadRequest, "Page size must be between 1 and 100"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
