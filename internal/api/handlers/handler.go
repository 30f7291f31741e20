// Пакет handlers — HTTP-обработчики каталога: публичные страницы, дашборд,
// JSON API и health endpoints. Обработчики зависят от узких интерфейсов сервисного слоя.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/calebdaradal/Nsfwph/internal/catalogue"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/service"
)

// CatalogueReader — постраничное чтение каталога.
type CatalogueReader interface {
	Page(ctx context.Context, query string, page int) (catalogue.Page, error)
}

// DownloadReader — данные download-страницы по slug или legacy id.
type DownloadReader interface {
	Lookup(ctx context.Context, key string) (*model.FileRecord, error)
	Load(ctx context.Context, key string) (*service.DownloadPage, error)
	DownloadTarget(ctx context.Context, key string) (string, error)
}

// LinkLister — список кнопок-редиректов.
type LinkLister interface {
	List(ctx context.Context) ([]model.LinkRedirect, error)
}

// ThemeReader — текущие цвета темы.
type ThemeReader interface {
	Get(ctx context.Context) (model.SiteSettings, error)
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// pageNumber разбирает ?page. Некорректное значение — первая страница,
// выход за пределы ограничивается пагинатором.
func pageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// requestOrigin восстанавливает scheme://host запроса с учётом reverse proxy.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}
