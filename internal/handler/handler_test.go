package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/udacity/trivia-api/internal/domain/entity"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
	"github.com/udacity/trivia-api/internal/service"
	"github.com/udacity/trivia-api/internal/service/quizmanager"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeQuestionRepo хранит вопросы в памяти
type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []entity.Question
	nextID    uint
	err       error
}

func newFakeQuestionRepo(questions []entity.Question) *fakeQuestionRepo {
	repo := &fakeQuestionRepo{nextID: 1}
	for _, q := range questions {
		repo.questions = append(repo.questions, q)
		if q.ID >= repo.nextID {
			repo.nextID = q.ID + 1
		}
	}
	sort.Slice(repo.questions, func(i, j int) bool { return repo.questions[i].ID < repo.questions[j].ID })
	return repo
}

func (r *fakeQuestionRepo) filter(keep func(entity.Question) bool) ([]entity.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	result := []entity.Question{}
	for _, q := range r.questions {
		if keep(q) {
			result = append(result, q)
		}
	}
	return result, nil
}

func (r *fakeQuestionRepo) Create(_ context.Context, question *entity.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	question.ID = r.nextID
	r.nextID++
	r.questions = append(r.questions, *question)
	return nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, q := range r.questions {
		if q.ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeQuestionRepo) ListOrdered(_ context.Context) ([]entity.Question, error) {
	return r.filter(func(entity.Question) bool { return true })
}

func (r *fakeQuestionRepo) ListByCategory(_ context.Context, categoryID uint) ([]entity.Question, error) {
	return r.filter(func(q entity.Question) bool { return q.Category == categoryID })
}

func (r *fakeQuestionRepo) Search(_ context.Context, term string) ([]entity.Question, error) {
	term = strings.ToLower(term)
	return r.filter(func(q entity.Question) bool { return strings.Contains(strings.ToLower(q.Question), term) })
}

// fakeCategoryRepo хранит категории в памяти
type fakeCategoryRepo struct {
	categories []entity.Category
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uint) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func seedCategories() []entity.Category {
	return []entity.Category{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
		{ID: 4, Type: "History"},
		{ID: 5, Type: "Entertainment"},
		{ID: 6, Type: "Sports"},
	}
}

// seedQuestions создаёт n вопросов с ID 1..n по категориям 1..6
func seedQuestions(n int) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:         uint(i + 1),
			Question:   "Question number " + string(rune('A'+i%26)),
			Answer:     "Answer",
			Category:   uint(i%6 + 1),
			Difficulty: i%5 + 1,
		}
	}
	return questions
}

type testAPI struct {
	router    *gin.Engine
	questions *fakeQuestionRepo
}

// newTestAPI собирает роутер с настоящими сервисами поверх репозиториев в памяти
func newTestAPI(questions []entity.Question) *testAPI {
	questionRepo := newFakeQuestionRepo(questions)
	categoryRepo := &fakeCategoryRepo{categories: seedCategories()}
	cfg := quizmanager.DefaultConfig()

	categoryService := service.NewCategoryService(categoryRepo, nil, cfg)
	questionService := service.NewQuestionService(questionRepo, categoryService, cfg)
	quizService := service.NewQuizService(questionRepo, categoryService,
		quizmanager.NewQuestionPickerWithSource(rand.NewSource(1)))

	router := NewRouter(RouterDeps{
		Questions:  NewQuestionHandler(questionService),
		Categories: NewCategoryHandler(categoryService, questionService),
		Quiz:       NewQuizHandler(quizService),
		Health: NewHealthHandler(map[string]PingFunc{
			"postgres": func(context.Context) error { return nil },
		}),
	})
	return &testAPI{router: router, questions: questionRepo}
}

func (a *testAPI) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, strings.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		data, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}
