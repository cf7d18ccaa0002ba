package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/udacity/trivia-api/internal/handler/dto"
	"github.com/udacity/trivia-api/internal/logger"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests: максимальное количество запросов за Window
	MaxRequests int
	// Window: временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix: префикс для ключей в Redis
	KeyPrefix string
}

// keyWithoutTTL ответ TTL для ключа без срока жизни
const keyWithoutTTL = time.Duration(-1)

// RateLimiter ограничивает частоту запросов фиксированным окном в Redis
type RateLimiter struct {
	redisClient redis.UniversalClient
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redisClient: redisClient}
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP и шаблона маршрута.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, clientIP, path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail-open
			logger.Get().Warn("Rate limiter Redis error, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		// Первый запрос в окне задаёт TTL
		if count == 1 {
			rl.expire(ctx, key, cfg.Window)
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}

		ttl, err := rl.redisClient.TTL(ctx, key).Result()
		if err == nil && ttl == keyWithoutTTL {
			// EXPIRE после INCR не выполнился, окно не закроется само
			rl.expire(ctx, key, cfg.Window)
			ttl = cfg.Window
		}
		retryAfter := int(ttl.Seconds())
		if err != nil || retryAfter <= 0 {
			retryAfter = int(cfg.Window.Seconds())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if int(count) > cfg.MaxRequests {
			logger.Get().Info("Rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("path", path),
				zap.Int64("count", count),
				zap.Int("limit", cfg.MaxRequests))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(http.StatusTooManyRequests, ""))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) expire(ctx context.Context, key string, window time.Duration) {
	if err := rl.redisClient.Expire(ctx, key, window).Err(); err != nil {
		logger.Get().Warn("Rate limiter failed to set TTL", zap.String("key", key), zap.Error(err))
	}
}
