package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/udacity/trivia-api/internal/domain/entity"
	"github.com/udacity/trivia-api/internal/domain/repository"
	"github.com/udacity/trivia-api/internal/logger"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
	"github.com/udacity/trivia-api/internal/service/quizmanager"
)

// CategoryService предоставляет чтение категорий с кешированием в Redis.
// Категории заполняются миграциями и почти не меняются, поэтому список
// кешируется целиком. Ошибки Redis не ломают запрос (fail-open).
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cacheRepo    repository.CacheRepository
	config       *quizmanager.Config
}

// NewCategoryService создает новый сервис категорий. cacheRepo может быть nil.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	cacheRepo repository.CacheRepository,
	config *quizmanager.Config,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		config:       config,
	}
}

// List возвращает все категории по возрастанию ID
func (s *CategoryService) List(ctx context.Context) ([]entity.Category, error) {
	key := s.config.CacheKey()

	if s.cacheRepo != nil {
		var cached []entity.Category
		err := s.cacheRepo.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Get().Warn("Category cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cacheRepo != nil {
		ttl := quizmanager.DefaultCategoryCacheTTL
		if s.config != nil && s.config.CategoryCacheTTL > 0 {
			ttl = s.config.CategoryCacheTTL
		}
		if err := s.cacheRepo.SetJSON(ctx, key, categories, ttl); err != nil {
			logger.Get().Warn("Category cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return categories, nil
}

// Get возвращает категорию по ID
func (s *CategoryService) Get(ctx context.Context, id uint) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category #%d", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get category #%d: %w", id, err)
	}
	return category, nil
}

// Exists сообщает, есть ли категория с таким ID. Проверка идёт по
// закешированному списку.
func (s *CategoryService) Exists(ctx context.Context, id uint) (bool, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}
