package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/udacity/trivia-api/internal/handler/dto"
	"github.com/udacity/trivia-api/internal/service"
)

// QuestionHandler обрабатывает запросы к банку вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// pageParam читает ?page=. Отсутствующее или некорректное значение даёт 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ListQuestions возвращает страницу всех вопросов и словарь категорий
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, err := h.questionService.ListPage(c.Request.Context(), pageParam(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuestionListResponse{
		Success:        true,
		Questions:      dto.NewQuestionResponses(page.Questions),
		TotalQuestions: page.TotalQuestions,
		Categories:     page.Categories,
	})
}

// CreateQuestion создает вопрос. Тело с searchTerm обрабатывается как поиск.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SearchTerm != nil {
		h.search(c, *req.SearchTerm)
		return
	}

	question := req.ToEntity()
	page, err := h.questionService.Create(c.Request.Context(), question, pageParam(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreatedResponse{
		Success:        true,
		Created:        question.ID,
		Questions:      dto.NewQuestionResponses(page.Questions),
		TotalQuestions: page.TotalQuestions,
	})
}

// SearchQuestions ищет вопросы по подстроке searchTerm
func (h *QuestionHandler) SearchQuestions(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SearchTerm == nil {
		abortWithError(c, http.StatusBadRequest, "searchTerm is required")
		return
	}
	h.search(c, *req.SearchTerm)
}

func (h *QuestionHandler) search(c *gin.Context, term string) {
	page, err := h.questionService.Search(c.Request.Context(), term, pageParam(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuestionListResponse{
		Success:        true,
		Questions:      dto.NewQuestionResponses(page.Questions),
		TotalQuestions: page.TotalQuestions,
	})
}

// DeleteQuestion удаляет вопрос по ID
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	page, err := h.questionService.Delete(c.Request.Context(), questionID, pageParam(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeletedResponse{
		Success:        true,
		Deleted:        questionID,
		Questions:      dto.NewQuestionResponses(page.Questions),
		TotalQuestions: page.TotalQuestions,
	})
}

// ExportQuestions выгружает банк вопросов в CSV (по умолчанию) или XLSX
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", service.ExportFormatCSV))

	// Файл собирается в буфер, чтобы ошибка не оставила клиенту обрезанный ответ
	var buf bytes.Buffer
	if err := h.questionService.Export(c.Request.Context(), format, &buf); err != nil {
		handleError(c, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == service.ExportFormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	filename := fmt.Sprintf("questions_%s.%s", time.Now().Format("20060102_150405"), format)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
