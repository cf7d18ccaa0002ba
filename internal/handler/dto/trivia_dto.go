package dto

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/udacity/trivia-api/internal/domain/entity"
)

// FlexInt принимает целое число как JSON-число или как строку с числом.
// Фронтенд отправляет значения из <select> строками.
type FlexInt int

// UnmarshalJSON реализует json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %s", data)
	}
	*f = FlexInt(n)
	return nil
}

// QuestionRequest тело POST /questions. Если передан searchTerm,
// запрос обрабатывается как поиск.
type QuestionRequest struct {
	SearchTerm *string `json:"searchTerm"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   FlexInt `json:"category"`
	Difficulty FlexInt `json:"difficulty"`
}

// ToEntity преобразует запрос в вопрос. Отрицательная категория
// превращается в 0 и отсекается валидацией.
func (r *QuestionRequest) ToEntity() *entity.Question {
	category := uint(0)
	if r.Category > 0 {
		category = uint(r.Category)
	}
	return &entity.Question{
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   category,
		Difficulty: int(r.Difficulty),
	}
}

// SearchRequest тело POST /questions/search
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// QuizCategoryRequest категория в запросе игры. id == 0 означает все категории.
type QuizCategoryRequest struct {
	ID   *FlexInt `json:"id"`
	Type string   `json:"type"`
}

// QuizRequest тело POST /quizzes
type QuizRequest struct {
	PreviousQuestions []uint               `json:"previous_questions"`
	QuizCategory      *QuizCategoryRequest `json:"quiz_category"`
}

// CategoryID возвращает ID категории игры или ошибку, если он отсутствует
// или отрицателен
func (r *QuizRequest) CategoryID() (uint, error) {
	if r.QuizCategory == nil || r.QuizCategory.ID == nil {
		return 0, fmt.Errorf("quiz_category.id is required")
	}
	if *r.QuizCategory.ID < 0 {
		return 0, fmt.Errorf("quiz_category.id must not be negative")
	}
	return uint(*r.QuizCategory.ID), nil
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID         uint   `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   uint   `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// CategoryResponse представляет категорию
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Type string `json:"type"`
}

// QuestionListResponse ответ списочных эндпоинтов вопросов
type QuestionListResponse struct {
	Success         bool               `json:"success"`
	Questions       []QuestionResponse `json:"questions"`
	TotalQuestions  int                `json:"total_questions"`
	Categories      map[string]string  `json:"categories,omitempty"`
	CurrentCategory *CategoryResponse  `json:"current_category"`
}

// CreatedResponse ответ на создание вопроса
type CreatedResponse struct {
	Success        bool               `json:"success"`
	Created        uint               `json:"created"`
	Questions      []QuestionResponse `json:"questions"`
	TotalQuestions int                `json:"total_questions"`
}

// DeletedResponse ответ на удаление вопроса
type DeletedResponse struct {
	Success        bool               `json:"success"`
	Deleted        uint               `json:"deleted"`
	Questions      []QuestionResponse `json:"questions"`
	TotalQuestions int                `json:"total_questions"`
}

// CategoriesResponse ответ GET /categories
type CategoriesResponse struct {
	Success         bool              `json:"success"`
	Categories      map[string]string `json:"categories"`
	TotalCategories int               `json:"total_categories"`
}

// QuizResponse ответ POST /quizzes. Question == nil означает конец игры.
type QuizResponse struct {
	Success  bool              `json:"success"`
	Question *QuestionResponse `json:"question"`
}

// ErrorResponse единый формат ошибок
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

var errorMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Resource Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "Too Many Requests",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusServiceUnavailable:  "Service Unavailable",
}

// NewErrorResponse создает ответ об ошибке для HTTP статуса
func NewErrorResponse(status int, detail string) ErrorResponse {
	message, ok := errorMessages[status]
	if !ok {
		message = http.StatusText(status)
	}
	return ErrorResponse{Success: false, Error: status, Message: message, Detail: detail}
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) *QuestionResponse {
	if q == nil {
		return nil
	}
	return &QuestionResponse{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

// NewQuestionResponses создает DTO для списка вопросов. Пустой список
// сериализуется как [], а не null.
func NewQuestionResponses(questions []entity.Question) []QuestionResponse {
	result := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		result = append(result, *NewQuestionResponse(&questions[i]))
	}
	return result
}

// NewCategoryResponse создает DTO для категории
func NewCategoryResponse(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Type: c.Type}
}
