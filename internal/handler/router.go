package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/udacity/trivia-api/internal/middleware"
)

// RouterDeps зависимости HTTP-слоя
type RouterDeps struct {
	Questions  *QuestionHandler
	Categories *CategoryHandler
	Quiz       *QuizHandler
	Health     *HealthHandler

	// RateLimiter == nil отключает ограничение частоты
	RateLimiter *middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig

	// Пустой список разрешает любые источники
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter собирает gin.Engine со всеми маршрутами API
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		Recovery(),
		cors.New(corsConfig(deps.CORSOrigins)),
	)

	// Изменяющие запросы проходят через rate limiter
	limit := func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		limit = deps.RateLimiter.Limit(deps.RateLimit)
	}

	router.GET("/healthz", deps.Health.Health)

	router.GET("/categories", deps.Categories.ListCategories)
	router.GET("/categories/:id/questions",
		middleware.ExtractUintParam("id", "categoryID"),
		deps.Categories.ListCategoryQuestions)

	questions := router.Group("/questions")
	{
		questions.GET("", deps.Questions.ListQuestions)
		questions.GET("/export", deps.Questions.ExportQuestions)
		questions.POST("", limit, deps.Questions.CreateQuestion)
		questions.POST("/search", deps.Questions.SearchQuestions)
		questions.DELETE("/:id", limit,
			middleware.ExtractUintParam("id", "questionID"),
			deps.Questions.DeleteQuestion)
	}

	// Старые пути фронтенда
	router.POST("/create_question", limit, deps.Questions.CreateQuestion)
	router.POST("/search", deps.Questions.SearchQuestions)

	router.POST("/quizzes", deps.Quiz.PlayQuiz)

	router.NoRoute(NoRoute)
	router.NoMethod(NoMethod)

	return router
}
