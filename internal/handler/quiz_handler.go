package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/udacity/trivia-api/internal/handler/dto"
	"github.com/udacity/trivia-api/internal/service"
)

// QuizHandler обрабатывает запросы игры
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик игры
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// PlayQuiz возвращает следующий вопрос игры или question: null,
// если вопросы закончились
func (h *QuizHandler) PlayQuiz(c *gin.Context) {
	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := req.CategoryID()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	question, err := h.quizService.Play(c.Request.Context(), req.PreviousQuestions, categoryID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuizResponse{
		Success:  true,
		Question: dto.NewQuestionResponse(question),
	})
}
