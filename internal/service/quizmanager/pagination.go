package quizmanager

// NormalizePage приводит номер страницы к допустимому значению.
// Отсутствующая, нулевая и отрицательная страница означают первую.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Paginate возвращает страницу page (1-based) размера pageSize из упорядоченного
// набора items. Индексы: [(page-1)*pageSize, page*pageSize), обрезанные по len(items).
// Страница за пределами набора даёт пустой (не nil) срез.
//
// items не модифицируется, результат является копией.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		pageSize = DefaultQuestionsPerPage
	}
	page = NormalizePage(page)

	// (page-1)*pageSize может переполниться для огромных page
	if page-1 > len(items)/pageSize {
		return []T{}
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	result := make([]T, end-start)
	copy(result, items[start:end])
	return result
}

// TotalPages возвращает количество непустых страниц для total элементов
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultQuestionsPerPage
	}
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
