package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/udacity/trivia-api/internal/domain/entity"
	"github.com/udacity/trivia-api/internal/handler/dto"
	"github.com/udacity/trivia-api/internal/service"
)

// CategoryHandler обрабатывает запросы, связанные с категориями
type CategoryHandler struct {
	categoryService *service.CategoryService
	questionService *service.QuestionService
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(categoryService *service.CategoryService, questionService *service.QuestionService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		questionService: questionService,
	}
}

// ListCategories возвращает словарь категорий {"id": "type"}
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Success:         true,
		Categories:      entity.CategoryMap(categories),
		TotalCategories: len(categories),
	})
}

// ListCategoryQuestions возвращает страницу вопросов категории
func (h *CategoryHandler) ListCategoryQuestions(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	page, err := h.questionService.ListByCategory(c.Request.Context(), categoryID, pageParam(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuestionListResponse{
		Success:         true,
		Questions:       dto.NewQuestionResponses(page.Questions),
		TotalQuestions:  page.TotalQuestions,
		CurrentCategory: dto.NewCategoryResponse(page.CurrentCategory),
	})
}
