package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/udacity/trivia-api/internal/config"
	"github.com/udacity/trivia-api/internal/domain/repository"
	"github.com/udacity/trivia-api/internal/handler"
	"github.com/udacity/trivia-api/internal/logger"
	"github.com/udacity/trivia-api/internal/middleware"
	pgRepo "github.com/udacity/trivia-api/internal/repository/postgres"
	redisRepo "github.com/udacity/trivia-api/internal/repository/redis"
	"github.com/udacity/trivia-api/internal/service"
	"github.com/udacity/trivia-api/internal/service/quizmanager"
	"github.com/udacity/trivia-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis: при недоступности сервер стартует без кеша и rate limiting
	cache := connectRedis(cfg.Redis, log)
	if cache.client != nil {
		defer cache.client.Close()
	}

	// Репозитории
	questionRepo := pgRepo.NewQuestionRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)

	// Сервисы
	quizConfig := &quizmanager.Config{
		QuestionsPerPage:   cfg.Trivia.QuestionsPerPage,
		CategoryCacheTTL:   cfg.Trivia.CategoryCacheTTL,
		CategoriesCacheKey: cfg.Trivia.CategoriesCacheKey,
	}
	categoryService := service.NewCategoryService(categoryRepo, cache.repo, quizConfig)
	questionService := service.NewQuestionService(questionRepo, categoryService, quizConfig)
	quizService := service.NewQuizService(questionRepo, categoryService, quizmanager.NewQuestionPicker())

	// Обработчики
	router := handler.NewRouter(handler.RouterDeps{
		Questions:   handler.NewQuestionHandler(questionService),
		Categories:  handler.NewCategoryHandler(categoryService, questionService),
		Quiz:        handler.NewQuizHandler(quizService),
		Health:      handler.NewHealthHandler(healthChecks(sqlDB.PingContext, cache)),
		RateLimiter: cache.limiter,
		RateLimit: middleware.RateLimitConfig{
			MaxRequests: cfg.Trivia.RateLimitRequests,
			Window:      cfg.Trivia.RateLimitWindow,
			KeyPrefix:   cfg.Trivia.RateLimitKeyPrefix,
		},
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited properly")
}

// redisDeps: компоненты поверх Redis. Все поля nil, если Redis недоступен.
type redisDeps struct {
	client  redis.UniversalClient
	repo    repository.CacheRepository
	limiter *middleware.RateLimiter
}

func connectRedis(cfg config.RedisConfig, log *zap.Logger) redisDeps {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := database.NewUniversalRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, starting without category cache and rate limiting", zap.Error(err))
		return redisDeps{}
	}

	cacheRepo, err := redisRepo.NewCacheRepo(client)
	if err != nil {
		_ = client.Close()
		log.Warn("Failed to initialize CacheRepo, starting without Redis", zap.Error(err))
		return redisDeps{}
	}

	log.Info("Successfully connected to Redis", zap.String("mode", cfg.Mode))
	return redisDeps{
		client:  client,
		repo:    cacheRepo,
		limiter: middleware.NewRateLimiter(client),
	}
}

// healthChecks проверяет Redis только если он был подключён при старте
func healthChecks(pingDB handler.PingFunc, cache redisDeps) map[string]handler.PingFunc {
	checks := map[string]handler.PingFunc{"postgres": pingDB}
	if cache.repo != nil {
		checks["redis"] = cache.repo.Ping
	}
	return checks
}
