package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udacity/trivia-api/internal/logger"
)

// PingFunc проверяет доступность зависимости
type PingFunc func(ctx context.Context) error

// HealthHandler отвечает на проверки живости
type HealthHandler struct {
	checks map[string]PingFunc
}

// NewHealthHandler создает обработчик проверок. checks: имя зависимости → проверка.
func NewHealthHandler(checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health пингует все зависимости. Любая ошибка даёт 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	c.JSON(status, gin.H{
		"success": status == http.StatusOK,
		"checks":  results,
	})
}
