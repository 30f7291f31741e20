// Пакет catalogue — фильтрация и постраничный вывод каталога.
// Чистые функции над уже загруженным списком записей: без I/O и состояния.
package catalogue

import (
	"strings"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
)

// PageSize — количество записей на странице каталога.
const PageSize = 8

// Page — видимая страница каталога.
type Page struct {
	// Items — записи текущей страницы
	Items []model.FileRecord
	// Query — нормализованный (trim) поисковый запрос
	Query string
	// Number — номер страницы (1-based, после ограничения диапазоном)
	Number int
	// TotalPages — количество страниц (минимум 1)
	TotalPages int
	// Total — количество записей после фильтрации
	Total int
	// HasPrev, HasNext — есть ли соседние страницы
	HasPrev bool
	HasNext bool
}

// Filter оставляет записи, заголовок которых содержит запрос (без учёта регистра).
// Пустой после trim запрос возвращает исходный срез без изменений.
func Filter(records []model.FileRecord, query string) []model.FileRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	out := make([]model.FileRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out
}

// TotalPages возвращает количество страниц для n записей, минимум 1.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Clamp ограничивает номер страницы диапазоном [1, totalPages].
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate фильтрует записи и возвращает страницу с номером page (1-based).
// Номер за пределами диапазона ограничивается. Детерминирована, без побочных эффектов.
func Paginate(records []model.FileRecord, query string, page int) Page {
	filtered := Filter(records, query)
	total := len(filtered)
	pages := TotalPages(total)
	number := Clamp(page, pages)

	start := (number - 1) * PageSize
	end := min(start+PageSize, total)

	return Page{
		Items:      filtered[start:end:end],
		Query:      strings.TrimSpace(query),
		Number:     number,
		TotalPages: pages,
		Total:      total,
		HasPrev:    number > 1,
		HasNext:    number < pages,
	}
}
