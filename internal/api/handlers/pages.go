// pages.go — публичные страницы: каталог, download-страница, /links.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/prerender"
	"github.com/calebdaradal/Nsfwph/internal/service"
	"github.com/calebdaradal/Nsfwph/internal/ui"
)

// PageHandler — обработчик публичных страниц.
type PageHandler struct {
	catalogue CatalogueReader
	downloads DownloadReader
	links     LinkLister
	theme     ThemeReader
	renderer  *ui.Renderer
	logger    *slog.Logger
}

// NewPageHandler создаёт обработчик публичных страниц.
func NewPageHandler(
	catalogue CatalogueReader,
	downloads DownloadReader,
	links LinkLister,
	theme ThemeReader,
	renderer *ui.Renderer,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		catalogue: catalogue,
		downloads: downloads,
		links:     links,
		theme:     theme,
		renderer:  renderer,
		logger:    logger.With(slog.String("component", "page_handler")),
	}
}

// Catalogue — GET / (?q=, ?page=).
func (h *PageHandler) Catalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query().Get("q")
	theme := h.loadTheme(ctx)

	page, err := h.catalogue.Page(ctx, q, pageNumber(r.URL.Query().Get("page")))
	if err != nil {
		h.logger.Error("Ошибка загрузки каталога", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusServiceUnavailable, "Catalogue is temporarily unavailable", theme)
		return
	}

	data := ui.CatalogueData{
		Page:  page,
		Links: h.loadLinks(ctx),
	}
	if page.HasPrev {
		data.PrevURL = catalogueURL(page.Query, page.Number-1)
	}
	if page.HasNext {
		data.NextURL = catalogueURL(page.Query, page.Number+1)
	}

	h.renderer.Render(w, http.StatusOK, ui.PageCatalogue, &ui.Page{
		Theme: theme,
		Data:  data,
	})
}

// Download — GET /file/{slug}. Ключ — slug или legacy id.
func (h *PageHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "slug")

	page, err := h.downloads.Load(ctx, key)
	if err != nil {
		h.downloadError(w, r, key, err)
		return
	}

	meta := prerender.NewMeta(page.File.Title, page.File.Subtitle, page.File.Thumbnail, requestOrigin(r))
	h.renderer.Render(w, http.StatusOK, ui.PageDownload, &ui.Page{
		Title:  page.File.Title,
		Theme:  page.Settings,
		Social: &meta,
		Data: ui.DownloadData{
			File:  page.File,
			Links: page.Links,
		},
	})
}

// DownloadRedirect — GET /file/{slug}/download, 302 на прямую ссылку.
func (h *PageHandler) DownloadRedirect(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "slug")

	target, err := h.downloads.DownloadTarget(r.Context(), key)
	if err != nil {
		h.downloadError(w, r, key, err)
		return
	}

	h.logger.Debug("Переход на скачивание", slog.String("key", key))
	http.Redirect(w, r, target, http.StatusFound)
}

// Links — GET /links.
func (h *PageHandler) Links(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	theme := h.loadTheme(ctx)

	links, err := h.links.List(ctx)
	if err != nil {
		h.logger.Error("Ошибка загрузки списка ссылок", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusServiceUnavailable, "Links are temporarily unavailable", theme)
		return
	}

	h.renderer.Render(w, http.StatusOK, ui.PageLinks, &ui.Page{
		Title: "Links",
		Theme: theme,
		Data:  links,
	})
}

// NotFound — страница 404 для неизвестных маршрутов.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderError(w, http.StatusNotFound, "Page not found", h.loadTheme(r.Context()))
}

func (h *PageHandler) downloadError(w http.ResponseWriter, r *http.Request, key string, err error) {
	theme := h.loadTheme(r.Context())
	if errors.Is(err, service.ErrNotFound) {
		h.renderer.RenderError(w, http.StatusNotFound, "File not found", theme)
		return
	}
	h.logger.Error("Ошибка загрузки записи каталога",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
	h.renderer.RenderError(w, http.StatusServiceUnavailable, "File is temporarily unavailable", theme)
}

// loadTheme возвращает тему; при ошибке — значения по умолчанию.
func (h *PageHandler) loadTheme(ctx context.Context) model.SiteSettings {
	theme, err := h.theme.Get(ctx)
	if err != nil {
		h.logger.Warn("Настройки темы недоступны, используются значения по умолчанию",
			slog.String("error", err.Error()),
		)
		return model.DefaultSettings()
	}
	return theme
}

// loadLinks возвращает ссылки для модального окна; ошибка не мешает показу каталога.
func (h *PageHandler) loadLinks(ctx context.Context) []model.LinkRedirect {
	links, err := h.links.List(ctx)
	if err != nil {
		h.logger.Warn("Список ссылок недоступен", slog.String("error", err.Error()))
		return nil
	}
	return links
}

// catalogueURL строит ссылку пагинации с сохранением поискового запроса.
func catalogueURL(query string, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}
