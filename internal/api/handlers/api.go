// api.go — JSON API каталога (read-only).
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/calebdaradal/Nsfwph/internal/api/errors"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/service"
)

// APIHandler — обработчик JSON API.
type APIHandler struct {
	catalogue CatalogueReader
	downloads DownloadReader
	logger    *slog.Logger
}

// NewAPIHandler создаёт обработчик JSON API.
func NewAPIHandler(catalogue CatalogueReader, downloads DownloadReader, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		catalogue: catalogue,
		downloads: downloads,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// fileResponse — запись каталога в JSON API (без прямой ссылки скачивания).
type fileResponse struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Thumbnail string `json:"thumbnail"`
}

// catalogueResponse — страница каталога.
type catalogueResponse struct {
	Items      []fileResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Query      string         `json:"query"`
}

func toFileResponse(f *model.FileRecord) fileResponse {
	return fileResponse{
		ID:        f.ID,
		Slug:      f.Slug,
		Path:      "/file/" + f.PathKey(),
		Title:     f.Title,
		Subtitle:  f.Subtitle,
		Thumbnail: f.Thumbnail,
	}
}

// Catalogue — GET /api/v1/catalogue (?q=, ?page=).
func (h *APIHandler) Catalogue(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogue.Page(r.Context(), r.URL.Query().Get("q"), pageNumber(r.URL.Query().Get("page")))
	if err != nil {
		h.logger.Error("Ошибка загрузки каталога", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Каталог временно недоступен")
		return
	}

	items := make([]fileResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toFileResponse(&page.Items[i]))
	}

	writeJSON(w, http.StatusOK, catalogueResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		Query:      page.Query,
	})
}

// GetFile — GET /api/v1/files/{slug}.
func (h *APIHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "slug")

	f, err := h.downloads.Lookup(r.Context(), key)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка получения записи каталога",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(f))
}
