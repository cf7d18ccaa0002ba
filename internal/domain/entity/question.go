package entity

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
)

// Границы сложности вопроса
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Question представляет вопрос викторины
type Question struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	Category   uint      `gorm:"not null;index" json:"category"`
	Difficulty int       `gorm:"not null" json:"difficulty"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Validate проверяет, что вопрос можно сохранить.
// Текст вопроса и ответа обрезается по краям.
func (q *Question) Validate() error {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)

	if q.Question == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if q.Answer == "" {
		return fmt.Errorf("%w: answer text is required", apperrors.ErrValidation)
	}
	if q.Category == 0 {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: difficulty must be between %d and %d", apperrors.ErrValidation, MinDifficulty, MaxDifficulty)
	}
	return nil
}

// InCategory сообщает, относится ли вопрос к категории
func (q *Question) InCategory(categoryID uint) bool {
	return q.Category == categoryID
}
