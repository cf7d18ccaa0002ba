package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/udacity/trivia-api/internal/domain/entity"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос.
// Несуществующая категория превращается в ErrValidation.
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	err := r.db.WithContext(ctx).Create(question).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: category %d does not exist", apperrors.ErrValidation, question.Category)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: question already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("create question failed: %w", err)
	}
	return nil
}

// Delete удаляет вопрос. Отсутствующий вопрос возвращает ErrNotFound.
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete question #%d failed: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: question #%d", apperrors.ErrNotFound, id)
	}
	return nil
}

// ListOrdered возвращает все вопросы по возрастанию ID
func (r *QuestionRepo) ListOrdered(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ListByCategory возвращает вопросы категории по возрастанию ID
func (r *QuestionRepo) ListByCategory(ctx context.Context, categoryID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).Where("category = ?", categoryID).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Search ищет подстроку в тексте вопроса без учёта регистра.
// Символы % и _ во входной строке ищутся буквально.
func (r *QuestionRepo) Search(ctx context.Context, term string) ([]entity.Question, error) {
	var questions []entity.Question
	pattern := "%" + escapeLike(term) + "%"
	err := r.db.WithContext(ctx).Where("question ILIKE ?", pattern).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE (экранирующий символ по умолчанию "\")
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
