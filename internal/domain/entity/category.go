package entity

import "strconv"

// AllCategories: идентификатор-сентинел "все категории" для игры.
// В таблице categories записи с таким ID нет.
const AllCategories uint = 0

// Category представляет категорию вопросов. Заполняется миграциями.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"size:100;not null;uniqueIndex" json:"type"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryMap преобразует список категорий в словарь {"id": "type"},
// который ожидает фронтенд.
func CategoryMap(categories []Category) map[string]string {
	result := make(map[string]string, len(categories))
	for _, c := range categories {
		result[strconv.FormatUint(uint64(c.ID), 10)] = c.Type
	}
	return result
}
