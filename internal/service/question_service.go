package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/udacity/trivia-api/internal/domain/entity"
	"github.com/udacity/trivia-api/internal/domain/repository"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
	"github.com/udacity/trivia-api/internal/service/quizmanager"
)

// Форматы экспорта банка вопросов
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// QuestionPage одна страница списка вопросов
type QuestionPage struct {
	Questions      []entity.Question
	TotalQuestions int
	// Categories заполняется только для общего списка
	Categories      map[string]string
	CurrentCategory *entity.Category
}

// QuestionService предоставляет методы для работы с банком вопросов
type QuestionService struct {
	questionRepo    repository.QuestionRepository
	categoryService *CategoryService
	config          *quizmanager.Config
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	categoryService *CategoryService,
	config *quizmanager.Config,
) *QuestionService {
	return &QuestionService{
		questionRepo:    questionRepo,
		categoryService: categoryService,
		config:          config,
	}
}

// ListPage возвращает страницу всех вопросов вместе со словарём категорий.
// Пустая страница считается ошибкой ErrNotFound.
func (s *QuestionService) ListPage(ctx context.Context, page int) (*QuestionPage, error) {
	all, err := s.questionRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := quizmanager.Paginate(all, page, s.config.PageSize())
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: page %d is empty", apperrors.ErrNotFound, quizmanager.NormalizePage(page))
	}

	categories, err := s.categoryService.List(ctx)
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Questions:      questions,
		TotalQuestions: len(all),
		Categories:     entity.CategoryMap(categories),
	}, nil
}

// ListByCategory возвращает страницу вопросов категории.
// Неизвестная категория возвращает ErrNotFound, пустая страница нет.
func (s *QuestionService) ListByCategory(ctx context.Context, categoryID uint, page int) (*QuestionPage, error) {
	category, err := s.categoryService.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	all, err := s.questionRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions of category #%d: %w", categoryID, err)
	}

	return &QuestionPage{
		Questions:       quizmanager.Paginate(all, page, s.config.PageSize()),
		TotalQuestions:  len(all),
		CurrentCategory: category,
	}, nil
}

// Search возвращает страницу вопросов, содержащих term
func (s *QuestionService) Search(ctx context.Context, term string, page int) (*QuestionPage, error) {
	found, err := s.questionRepo.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}

	return &QuestionPage{
		Questions:      quizmanager.Paginate(found, page, s.config.PageSize()),
		TotalQuestions: len(found),
	}, nil
}

// Create проверяет и сохраняет вопрос, после чего возвращает запрошенную
// страницу общего списка. ID созданного вопроса записывается в question.
func (s *QuestionService) Create(ctx context.Context, question *entity.Question, page int) (*QuestionPage, error) {
	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	return s.currentPage(ctx, page)
}

// Delete удаляет вопрос и возвращает запрошенную страницу оставшихся
func (s *QuestionService) Delete(ctx context.Context, id uint, page int) (*QuestionPage, error) {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return s.currentPage(ctx, page)
}

func (s *QuestionService) currentPage(ctx context.Context, page int) (*QuestionPage, error) {
	all, err := s.questionRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionPage{
		Questions:      quizmanager.Paginate(all, page, s.config.PageSize()),
		TotalQuestions: len(all),
	}, nil
}

// Export выгружает весь банк вопросов в w в формате csv или xlsx
func (s *QuestionService) Export(ctx context.Context, format string, w io.Writer) error {
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}

	questions, err := s.questionRepo.ListOrdered(ctx)
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}

	categories, err := s.categoryService.List(ctx)
	if err != nil {
		return err
	}
	names := entity.CategoryMap(categories)

	if format == ExportFormatXLSX {
		return exportXLSX(w, questions, names)
	}
	return exportCSV(w, questions, names)
}

var exportHeaders = []string{"ID", "Question", "Answer", "Category", "Difficulty"}

func exportRow(q entity.Question, names map[string]string) []string {
	categoryID := strconv.FormatUint(uint64(q.Category), 10)
	return []string{
		strconv.FormatUint(uint64(q.ID), 10),
		sanitizeForExcel(q.Question),
		sanitizeForExcel(q.Answer),
		sanitizeForExcel(names[categoryID]),
		strconv.Itoa(q.Difficulty),
	}
}

// exportCSV пишет CSV с BOM для корректного UTF-8 в Excel
func exportCSV(w io.Writer, questions []entity.Question, names map[string]string) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, q := range questions {
		if err := writer.Write(exportRow(q, names)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// exportXLSX пишет книгу Excel через StreamWriter
func exportXLSX(w io.Writer, questions []entity.Question, names map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Questions"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headers[i] = h
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, q := range questions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(q, names)
		values := []interface{}{q.ID, row[1], row[2], row[3], q.Difficulty}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
