package quizmanager

import (
	"math/rand"
	"sync"
	"time"

	"github.com/udacity/trivia-api/internal/domain/entity"
)

// QuestionPicker выбирает случайный ещё не заданный вопрос для игры.
// Состояние игры (список заданных вопросов) хранит клиент, сам селектор
// ничего не запоминает между вызовами.
type QuestionPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuestionPicker создаёт селектор с источником случайности, инициализированным временем
func NewQuestionPicker() *QuestionPicker {
	return NewQuestionPickerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewQuestionPickerWithSource создаёт селектор с заданным источником (для тестов)
func NewQuestionPickerWithSource(src rand.Source) *QuestionPicker {
	return &QuestionPicker{rng: rand.New(src)}
}

// Candidates возвращает вопросы пула, подходящие под фильтр категории и
// не входящие в excludedIDs. Порядок пула сохраняется.
// categoryFilter == entity.AllCategories отключает фильтр по категории.
func Candidates(pool []entity.Question, excludedIDs []uint, categoryFilter uint) []entity.Question {
	excluded := make(map[uint]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}

	remaining := make([]entity.Question, 0, len(pool))
	for _, q := range pool {
		if categoryFilter != entity.AllCategories && !q.InCategory(categoryFilter) {
			continue
		}
		if _, seen := excluded[q.ID]; seen {
			continue
		}
		remaining = append(remaining, q)
	}
	return remaining
}

// PickNext выбирает равновероятно один вопрос из пула за вычетом excludedIDs.
// Если подходящих вопросов не осталось (в том числе при пустом пуле),
// возвращает (nil, false): это штатный конец игры, а не ошибка.
func (p *QuestionPicker) PickNext(pool []entity.Question, excludedIDs []uint, categoryFilter uint) (*entity.Question, bool) {
	remaining := Candidates(pool, excludedIDs, categoryFilter)
	if len(remaining) == 0 {
		return nil, false
	}

	p.mu.Lock()
	idx := p.rng.Intn(len(remaining))
	p.mu.Unlock()

	chosen := remaining[idx]
	return &chosen, true
}
