package repository

import (
	"context"

	"github.com/udacity/trivia-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами.
// Все списки упорядочены по ID.
type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	Delete(ctx context.Context, id uint) error

	ListOrdered(ctx context.Context) ([]entity.Question, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]entity.Question, error)
	// Search ищет вопросы, в тексте которых встречается term (без учёта регистра)
	Search(ctx context.Context, term string) ([]entity.Question, error)
}
