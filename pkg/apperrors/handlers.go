package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// debug управляет тем, уходит ли текст внутренней ошибки клиенту
var debug = false

// SetDebug включает подробные ответы (только для development)
func SetDebug(enabled bool) {
	debug = enabled
}

// HandleError пишет ответ об ошибке в формате {"error": {...}}
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "server error", "error", appErr.Error())
		if debug && appErr.Err != nil {
			appErr = appErr.WithDetails(appErr.Err.Error())
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}
