package catalogue

import "github.com/calebdaradal/Nsfwph/internal/domain/model"

// Pager — состояние просмотра каталога: запрос и текущая страница.
// Смена запроса сбрасывает страницу на первую; переходы ограничиваются
// размером отфильтрованного набора.
type Pager struct {
	query string
	page  int
}

// NewPager создаёт Pager на первой странице с пустым запросом.
func NewPager() Pager {
	return Pager{page: 1}
}

// Query возвращает текущий запрос.
func (p Pager) Query() string { return p.query }

// Page возвращает текущий номер страницы (1-based).
func (p Pager) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// SetQuery меняет запрос. Если запрос изменился, страница сбрасывается на 1.
func (p Pager) SetQuery(q string) Pager {
	if q != p.query {
		p.query = q
		p.page = 1
	}
	return p
}

// Goto переходит на страницу n, ограничивая её диапазоном для records.
func (p Pager) Goto(records []model.FileRecord, n int) Pager {
	p.page = Clamp(n, TotalPages(len(Filter(records, p.query))))
	return p
}

// Next переходит на следующую страницу (не дальше последней).
func (p Pager) Next(records []model.FileRecord) Pager {
	return p.Goto(records, p.Page()+1)
}

// Prev переходит на предыдущую страницу (не раньше первой).
func (p Pager) Prev(records []model.FileRecord) Pager {
	return p.Goto(records, p.Page()-1)
}

// View возвращает видимую страницу; номер повторно ограничивается,
// если отфильтрованный набор уменьшился.
func (p Pager) View(records []model.FileRecord) Page {
	return Paginate(records, p.query, p.Page())
}
