package quizmanager

import "time"

// Значения по умолчанию
const (
	DefaultQuestionsPerPage = 10
	DefaultCategoryCacheTTL = 10 * time.Minute
	DefaultCategoriesKey    = "trivia:categories"
)

// Config содержит настройки выдачи вопросов
type Config struct {
	// Количество вопросов на странице для всех списочных эндпоинтов
	QuestionsPerPage int
	// Время жизни кеша списка категорий
	CategoryCacheTTL time.Duration
	// Ключ Redis для списка категорий
	CategoriesCacheKey string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		QuestionsPerPage:   DefaultQuestionsPerPage,
		CategoryCacheTTL:   DefaultCategoryCacheTTL,
		CategoriesCacheKey: DefaultCategoriesKey,
	}
}

// PageSize возвращает размер страницы, подставляя значение по умолчанию
// для неположительных настроек
func (c *Config) PageSize() int {
	if c == nil || c.QuestionsPerPage <= 0 {
		return DefaultQuestionsPerPage
	}
	return c.QuestionsPerPage
}

// CacheKey возвращает ключ кеша категорий
func (c *Config) CacheKey() string {
	if c == nil || c.CategoriesCacheKey == "" {
		return DefaultCategoriesKey
	}
	return c.CategoriesCacheKey
}
