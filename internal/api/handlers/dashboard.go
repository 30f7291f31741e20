// dashboard.go — дашборд: CRUD записей каталога и редиректов, настройки темы.
// Все маршруты закрыты middleware.SessionAuth.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/calebdaradal/Nsfwph/internal/api/middleware"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/objectstore"
	"github.com/calebdaradal/Nsfwph/internal/service"
	"github.com/calebdaradal/Nsfwph/internal/ui"
)

// Лимиты multipart-формы: миниатюра плюс текстовые поля.
const (
	maxFormSize   = objectstore.MaxImageSize + 1<<20
	maxFormMemory = 8 << 20
)

// Коды уведомлений после redirect (?notice=).
var notices = map[string]string{
	"file_saved":     "File saved.",
	"file_deleted":   "File deleted.",
	"link_saved":     "Link redirect saved.",
	"link_deleted":   "Link redirect deleted.",
	"settings_saved": "Settings saved.",
}

// FileManager — CRUD записей каталога.
type FileManager interface {
	List(ctx context.Context) ([]model.FileRecord, error)
	Get(ctx context.Context, id string) (*model.FileRecord, error)
	Create(ctx context.Context, in service.FileInput) (*model.FileRecord, error)
	Update(ctx context.Context, id string, in service.FileInput) (*model.FileRecord, error)
	Delete(ctx context.Context, id string) error
}

// LinkManager — CRUD кнопок-редиректов.
type LinkManager interface {
	List(ctx context.Context) ([]model.LinkRedirect, error)
	Get(ctx context.Context, id string) (*model.LinkRedirect, error)
	Create(ctx context.Context, in service.LinkInput) (*model.LinkRedirect, error)
	Update(ctx context.Context, id string, in service.LinkInput) (*model.LinkRedirect, error)
	Delete(ctx context.Context, id string) error
}

// SettingsManager — чтение и сохранение темы.
type SettingsManager interface {
	Get(ctx context.Context) (model.SiteSettings, error)
	Save(ctx context.Context, in model.SiteSettings) (model.SiteSettings, error)
	Reset() model.SiteSettings
}

// DashboardHandler — обработчик дашборда.
type DashboardHandler struct {
	files    FileManager
	links    LinkManager
	settings SettingsManager
	renderer *ui.Renderer
	logger   *slog.Logger
}

// NewDashboardHandler создаёт обработчик дашборда.
func NewDashboardHandler(
	files FileManager,
	links LinkManager,
	settings SettingsManager,
	renderer *ui.Renderer,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		files:    files,
		links:    links,
		settings: settings,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Show — GET /dashboard (?edit_file=, ?edit_link=, ?notice=).
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	data := &ui.DashboardData{Notice: notices[query.Get("notice")]}

	if id := query.Get("edit_file"); id != "" {
		f, err := h.files.Get(ctx, id)
		switch {
		case err == nil:
			data.FileForm = ui.FileForm{
				ID:           f.ID,
				Title:        f.Title,
				Size:         service.EditSize(f.Subtitle),
				DownloadLink: f.DownloadLink,
				Thumbnail:    f.Thumbnail,
			}
		case errors.Is(err, service.ErrNotFound):
			data.Error = "File not found"
		default:
			h.logger.Error("Ошибка загрузки записи для редактирования",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			data.Error = "Failed to load file"
		}
	}

	if id := query.Get("edit_link"); id != "" {
		l, err := h.links.Get(ctx, id)
		switch {
		case err == nil:
			data.LinkForm = ui.LinkForm{
				ID:         l.ID,
				Title:      l.Title,
				ButtonLink: l.ButtonLink,
				Thumbnail:  l.Thumbnail,
			}
		case errors.Is(err, service.ErrNotFound):
			data.Error = "Link redirect not found"
		default:
			h.logger.Error("Ошибка загрузки редиректа для редактирования",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			data.Error = "Failed to load link redirect"
		}
	}

	h.render(w, r, http.StatusOK, data, nil)
}

// --- Записи каталога ---

// CreateFile — POST /dashboard/files.
func (h *DashboardHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	in, form, closeUpload, ok := h.parseFileForm(w, r, "")
	if !ok {
		return
	}
	defer closeUpload()

	if _, err := h.files.Create(r.Context(), in); err != nil {
		h.writeFailed(w, r, err, &ui.DashboardData{FileForm: form})
		return
	}
	redirectNotice(w, r, "file_saved", "files")
}

// UpdateFile — POST /dashboard/files/{id}.
func (h *DashboardHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, form, closeUpload, ok := h.parseFileForm(w, r, id)
	if !ok {
		return
	}
	defer closeUpload()

	if _, err := h.files.Update(r.Context(), id, in); err != nil {
		h.writeFailed(w, r, err, &ui.DashboardData{FileForm: form})
		return
	}
	redirectNotice(w, r, "file_saved", "files")
}

// DeleteFile — POST /dashboard/files/{id}/delete.
func (h *DashboardHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeFailed(w, r, err, &ui.DashboardData{})
		return
	}
	redirectNotice(w, r, "file_deleted", "files")
}

// --- Редиректы ---

// CreateLink — POST /dashboard/links.
func (h *DashboardHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	in, form, closeUpload, ok := h.parseLinkForm(w, r, "")
	if !ok {
		return
	}
	defer closeUpload()

	if _, err := h.links.Create(r.Context(), in); err != nil {
		h.writeFailed(w, r, err, &ui.DashboardData{LinkForm: form})
		return
	}
	redirectNotice(w, r, "link_saved", "links")
}

// UpdateLink — POST /dashboard/links/{id}.
func (h *DashboardHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, form, closeUpload, ok := h.parseLinkForm(w, r, id)
	if !ok {
		return
	}
	defer closeUpload()

	if _, err := h.links.Update(r.Context(), id, in); err != nil {
		h.writeFailed(w, r, err, &ui.DashboardData{LinkForm: form})
		return
	}
	redirectNotice(w, r, "link_saved", "links")
}

// DeleteLink — POST /dashboard/links/{id}/delete.
func (h *DashboardHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.links.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeFailed(w, r, err, &ui.DashboardData{})
		return
	}
	redirectNotice(w, r, "link_deleted", "links")
}

// --- Настройки ---

// SaveSettings — POST /dashboard/settings.
func (h *DashboardHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, &ui.DashboardData{Error: "Invalid form"}, nil)
		return
	}
	in := model.SiteSettings{
		ButtonColor:     r.PostFormValue("button_color"),
		BackgroundColor: r.PostFormValue("background_color"),
		CardBackground:  r.PostFormValue("card_background"),
		TextPrimary:     r.PostFormValue("text_primary"),
		TextSecondary:   r.PostFormValue("text_secondary"),
	}

	if _, err := h.settings.Save(r.Context(), in); err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.render(w, r, http.StatusBadRequest, &ui.DashboardData{Error: err.Error()}, &in)
			return
		}
		h.logger.Error("Ошибка сохранения настроек", slog.String("error", err.Error()))
		h.render(w, r, http.StatusInternalServerError, &ui.DashboardData{Error: "Failed to save settings"}, &in)
		return
	}
	redirectNotice(w, r, "settings_saved", "settings")
}

// ResetSettings — POST /dashboard/settings/reset. Форма заполняется значениями
// по умолчанию; сохранение выполняется отдельным submit.
func (h *DashboardHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	defaults := h.settings.Reset()
	h.render(w, r, http.StatusOK, &ui.DashboardData{
		Notice: "Default colors restored, save to apply.",
	}, &defaults)
}

// --- Вспомогательные функции ---

// parseFileForm разбирает форму записи каталога. При ошибке ответ уже записан.
func (h *DashboardHandler) parseFileForm(w http.ResponseWriter, r *http.Request, id string) (service.FileInput, ui.FileForm, func(), bool) {
	upload, closeUpload, err := parseUploadForm(w, r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, &ui.DashboardData{Error: err.Error(), FileForm: ui.FileForm{ID: id}}, nil)
		return service.FileInput{}, ui.FileForm{}, nil, false
	}

	in := service.FileInput{
		Title:        r.PostFormValue("title"),
		DownloadLink: r.PostFormValue("download_link"),
		Size:         r.PostFormValue("size"),
		Thumbnail:    upload,
	}
	form := ui.FileForm{
		ID:           id,
		Title:        in.Title,
		Size:         in.Size,
		DownloadLink: in.DownloadLink,
	}
	return in, form, closeUpload, true
}

// parseLinkForm разбирает форму редиректа. При ошибке ответ уже записан.
func (h *DashboardHandler) parseLinkForm(w http.ResponseWriter, r *http.Request, id string) (service.LinkInput, ui.LinkForm, func(), bool) {
	upload, closeUpload, err := parseUploadForm(w, r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, &ui.DashboardData{Error: err.Error(), LinkForm: ui.LinkForm{ID: id}}, nil)
		return service.LinkInput{}, ui.LinkForm{}, nil, false
	}

	in := service.LinkInput{
		Title:      r.PostFormValue("title"),
		ButtonLink: r.PostFormValue("button_link"),
		Thumbnail:  upload,
	}
	form := ui.LinkForm{
		ID:         id,
		Title:      in.Title,
		ButtonLink: in.ButtonLink,
	}
	return in, form, closeUpload, true
}

// errFormTooLarge — тело формы превышает maxFormSize.
var errFormTooLarge = errors.New("form is too large, thumbnail must be at most 5 MB")

// parseUploadForm разбирает multipart-форму (или urlencoded без файла) и
// возвращает загружаемую миниатюру. Пустое поле thumbnail — nil.
func parseUploadForm(w http.ResponseWriter, r *http.Request) (*service.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errFormTooLarge
		}
		return nil, nil, errors.New("invalid form")
	}

	file, header, err := r.FormFile("thumbnail")
	if err != nil || header.Size == 0 || header.Filename == "" {
		if file != nil {
			_ = file.Close()
		}
		return nil, func() {}, nil
	}

	upload := &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return upload, func() { _ = file.Close() }, nil
}

// writeFailed рендерит дашборд с ошибкой операции записи.
func (h *DashboardHandler) writeFailed(w http.ResponseWriter, r *http.Request, err error, data *ui.DashboardData) {
	switch {
	case errors.Is(err, service.ErrValidation):
		data.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, data, nil)
	case errors.Is(err, service.ErrNotFound):
		data.Error = "Record not found"
		h.render(w, r, http.StatusNotFound, data, nil)
	default:
		h.logger.Error("Ошибка записи из дашборда",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		data.Error = "Failed to save changes, try again later"
		h.render(w, r, http.StatusInternalServerError, data, nil)
	}
}

// render дополняет данные списками и настройками и рендерит дашборд.
// settingsForm — значения формы настроек, если они отличаются от сохранённых.
func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, data *ui.DashboardData, settingsForm *model.SiteSettings) {
	ctx := r.Context()

	if session := middleware.SessionFromContext(ctx); session != nil {
		data.Email = session.Email
	}
	data.Origin = requestOrigin(r)

	files, err := h.files.List(ctx)
	if err != nil {
		h.logger.Error("Ошибка загрузки записей каталога", slog.String("error", err.Error()))
		data.Error = joinError(data.Error, "Failed to load files")
	}
	data.Files = files

	links, err := h.links.List(ctx)
	if err != nil {
		h.logger.Error("Ошибка загрузки редиректов", slog.String("error", err.Error()))
		data.Error = joinError(data.Error, "Failed to load link redirects")
	}
	data.Links = links

	theme, err := h.settings.Get(ctx)
	if err != nil {
		h.logger.Warn("Настройки темы недоступны", slog.String("error", err.Error()))
		theme = model.DefaultSettings()
	}
	data.Settings = theme.WithDefaults()
	if settingsForm != nil {
		data.Settings = *settingsForm
	}

	h.renderer.Render(w, status, ui.PageDashboard, &ui.Page{
		Title: "Dashboard",
		Theme: theme,
		Data:  data,
	})
}

func joinError(current, msg string) string {
	if current == "" {
		return msg
	}
	return current + ". " + msg
}

// redirectNotice — POST/redirect/GET с уведомлением и якорем секции.
func redirectNotice(w http.ResponseWriter, r *http.Request, notice, section string) {
	target := DashboardPath + "?" + url.Values{"notice": {notice}}.Encode() + "#" + section
	http.Redirect(w, r, target, http.StatusSeeOther)
}
