package service

import (
	"context"
	"fmt"

	"github.com/udacity/trivia-api/internal/domain/entity"
	"github.com/udacity/trivia-api/internal/domain/repository"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
	"github.com/udacity/trivia-api/internal/service/quizmanager"
)

// QuizService выдает вопросы для игры. Игра не хранит состояние на сервере:
// клиент присылает ID уже заданных вопросов с каждым запросом.
type QuizService struct {
	questionRepo    repository.QuestionRepository
	categoryService *CategoryService
	picker          *quizmanager.QuestionPicker
}

// NewQuizService создает новый сервис игры
func NewQuizService(
	questionRepo repository.QuestionRepository,
	categoryService *CategoryService,
	picker *quizmanager.QuestionPicker,
) *QuizService {
	if picker == nil {
		picker = quizmanager.NewQuestionPicker()
	}
	return &QuizService{
		questionRepo:    questionRepo,
		categoryService: categoryService,
		picker:          picker,
	}
}

// Play возвращает следующий случайный вопрос, которого нет в previousIDs.
// categoryID == entity.AllCategories означает игру по всем категориям.
// Когда вопросы закончились, возвращает (nil, nil).
func (s *QuizService) Play(ctx context.Context, previousIDs []uint, categoryID uint) (*entity.Question, error) {
	var (
		pool []entity.Question
		err  error
	)

	if categoryID == entity.AllCategories {
		pool, err = s.questionRepo.ListOrdered(ctx)
	} else {
		exists, existsErr := s.categoryService.Exists(ctx, categoryID)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, fmt.Errorf("%w: category #%d does not exist", apperrors.ErrUnprocessable, categoryID)
		}
		pool, err = s.questionRepo.ListByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}

	question, ok := s.picker.PickNext(pool, previousIDs, categoryID)
	if !ok {
		return nil, nil
	}
	return question, nil
}
