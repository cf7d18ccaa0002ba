package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udacity/trivia-api/internal/handler/dto"
	"github.com/udacity/trivia-api/internal/logger"
	"github.com/udacity/trivia-api/internal/middleware"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
)

// abortWithError отвечает в едином формате ошибок
func abortWithError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, detail))
}

// handleError сопоставляет ошибки сервисов со статусами HTTP
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "")
	case errors.Is(err, apperrors.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnprocessable):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		logger.Get().Error("Internal server error",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "")
	}
}

// NoRoute отвечает 404 для неизвестных маршрутов
func NoRoute(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, "")
}

// NoMethod отвечает 405, если маршрут есть, но метод не поддерживается
func NoMethod(c *gin.Context) {
	abortWithError(c, http.StatusMethodNotAllowed, "")
}

// Recovery превращает панику в ответ 500 в едином формате
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Get().Error("Panic recovered",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Any("panic", recovered))
		abortWithError(c, http.StatusInternalServerError, "")
	})
}
