package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/udacity/trivia-api/internal/domain/entity"
	apperrors "github.com/udacity/trivia-api/internal/pkg/errors"
	"github.com/udacity/trivia-api/internal/service/quizmanager"
)

func newTestQuestionService(questionRepo *MockQuestionRepo, categoryRepo *MockCategoryRepo) *QuestionService {
	cfg := quizmanager.DefaultConfig()
	return NewQuestionService(questionRepo, NewCategoryService(categoryRepo, nil, cfg), cfg)
}

func TestQuestionService_ListPage(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListOrdered", mock.Anything).Return(makeQuestions(25), nil)
	categoryRepo.On("List", mock.Anything).Return(testCategories(), nil)
	svc := newTestQuestionService(questionRepo, categoryRepo)

	// Act
	page, err := svc.ListPage(context.Background(), 3)

	// Assert
	require.NoError(t, err)
	require.Len(t, page.Questions, 5)
	assert.Equal(t, uint(21), page.Questions[0].ID)
	assert.Equal(t, uint(25), page.Questions[4].ID)
	assert.Equal(t, 25, page.TotalQuestions)
	assert.Equal(t, "Science", page.Categories["1"])
	assert.Nil(t, page.CurrentCategory)
}

func TestQuestionService_ListPage_EmptyPageIsNotFound(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListOrdered", mock.Anything).Return(makeQuestions(25), nil)
	svc := newTestQuestionService(questionRepo, categoryRepo)

	page, err := svc.ListPage(context.Background(), 4)

	assert.Nil(t, page)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	categoryRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestQuestionService_ListByCategory(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	inCategory := []entity.Question{{ID: 2, Category: 2}, {ID: 5, Category: 2}}
	categoryRepo.On("GetByID", mock.Anything, uint(2)).Return(&entity.Category{ID: 2, Type: "Art"}, nil)
	questionRepo.On("ListByCategory", mock.Anything, uint(2)).Return(inCategory, nil)
	svc := newTestQuestionService(questionRepo, categoryRepo)

	page, err := svc.ListByCategory(context.Background(), 2, 1)

	require.NoError(t, err)
	assert.Equal(t, inCategory, page.Questions)
	assert.Equal(t, 2, page.TotalQuestions)
	assert.Equal(t, "Art", page.CurrentCategory.Type)
}

func TestQuestionService_ListByCategory_TotalIsNotCappedByPageSize(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", mock.Anything, uint(1)).Return(&entity.Category{ID: 1, Type: "Science"}, nil)
	questionRepo.On("ListByCategory", mock.Anything, uint(1)).Return(makeQuestions(14), nil)
	svc := newTestQuestionService(questionRepo, categoryRepo)

	page, err := svc.ListByCategory(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Len(t, page.Questions, 4)
	assert.Equal(t, 14, page.TotalQuestions)
}

func TestQuestionService_ListByCategory_UnknownCategory(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", mock.Anything, uint(1000)).Return(nil, apperrors.ErrNotFound)
	svc := newTestQuestionService(questionRepo, categoryRepo)

	page, err := svc.ListByCategory(context.Background(), 1000, 1)

	assert.Nil(t, page)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	questionRepo.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything)
}

func TestQuestionService_Search(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	found := []entity.Question{{ID: 5, Question: "What is the title of the 1990 fantasy?"}}
	questionRepo.On("Search", mock.Anything, "title").Return(found, nil)
	svc := newTestQuestionService(questionRepo, new(MockCategoryRepo))

	page, err := svc.Search(context.Background(), "  title ", 1)

	require.NoError(t, err)
	assert.Equal(t, found, page.Questions)
	assert.Equal(t, 1, page.TotalQuestions)
}

func TestQuestionService_Create(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	question := &entity.Question{Question: " New? ", Answer: "Yes", Category: 1, Difficulty: 2}
	questionRepo.On("Create", mock.Anything, question).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Question).ID = 26 }).
		Return(nil)
	questionRepo.On("ListOrdered", mock.Anything).Return(makeQuestions(26), nil)
	svc := newTestQuestionService(questionRepo, new(MockCategoryRepo))

	page, err := svc.Create(context.Background(), question, 1)

	require.NoError(t, err)
	assert.Equal(t, uint(26), question.ID)
	assert.Equal(t, "New?", question.Question)
	assert.Len(t, page.Questions, 10)
	assert.Equal(t, 26, page.TotalQuestions)
}

func TestQuestionService_Create_Invalid(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	svc := newTestQuestionService(questionRepo, new(MockCategoryRepo))

	page, err := svc.Create(context.Background(), &entity.Question{Answer: "a", Category: 1, Difficulty: 1}, 1)

	assert.Nil(t, page)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	questionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuestionService_Delete(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	questionRepo.On("Delete", mock.Anything, uint(3)).Return(nil)
	questionRepo.On("ListOrdered", mock.Anything).Return(makeQuestions(18), nil)
	svc := newTestQuestionService(questionRepo, new(MockCategoryRepo))

	page, err := svc.Delete(context.Background(), 3, 1)

	require.NoError(t, err)
	assert.Equal(t, 18, page.TotalQuestions)
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_Delete_NotFound(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	questionRepo.On("Delete", mock.Anything, uint(1000)).Return(apperrors.ErrNotFound)
	svc := newTestQuestionService(questionRepo, new(MockCategoryRepo))

	page, err := svc.Delete(context.Background(), 1000, 1)

	assert.Nil(t, page)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	questionRepo.AssertNotCalled(t, "ListOrdered", mock.Anything)
}

func TestQuestionService_Export_CSV(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListOrdered", mock.Anything).Return([]entity.Question{
		{ID: 1, Question: "=HYPERLINK(\"x\")", Answer: "a, b", Category: 1, Difficulty: 3},
	}, nil)
	categoryRepo.On("List", mock.Anything).Return(testCategories(), nil)
	svc := newTestQuestionService(questionRepo, categoryRepo)
	var buf bytes.Buffer

	// Act
	err := svc.Export(context.Background(), ExportFormatCSV, &buf)

	// Assert
	require.NoError(t, err)
	data := bytes.TrimPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF})
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, []string{"1", "'=HYPERLINK(\"x\")", "a, b", "Science", "3"}, records[1])
}

func TestQuestionService_Export_XLSX(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListOrdered", mock.Anything).Return(makeQuestions(3), nil)
	categoryRepo.On("List", mock.Anything).Return(testCategories(), nil)
	svc := newTestQuestionService(questionRepo, categoryRepo)
	var buf bytes.Buffer

	err := svc.Export(context.Background(), ExportFormatXLSX, &buf)

	require.NoError(t, err)
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Questions")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Question", rows[0][1])
	assert.Equal(t, "Art", rows[2][3])
}

func TestQuestionService_Export_UnknownFormat(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	svc := newTestQuestionService(questionRepo, new(MockCategoryRepo))

	err := svc.Export(context.Background(), "pdf", &bytes.Buffer{})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	questionRepo.AssertNotCalled(t, "ListOrdered", mock.Anything)
}

func TestSanitizeForExcel(t *testing.T) {
	assert.Equal(t, "", sanitizeForExcel(""))
	assert.Equal(t, "plain", sanitizeForExcel("plain"))
	assert.Equal(t, "'=1+1", sanitizeForExcel("=1+1"))
	assert.Equal(t, "'@cmd", sanitizeForExcel("@cmd"))
	assert.Equal(t, "'-5", sanitizeForExcel("-5"))
}
