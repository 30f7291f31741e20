// Пакет ui — серверный рендеринг страниц каталога.
// Шаблоны html/template и статические ресурсы встраиваются в бинарник через //go:embed.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/prerender"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Имена страниц (templates/<name>.html).
const (
	PageCatalogue = "catalogue"
	PageDownload  = "download"
	PageLinks     = "links"
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageError     = "error"
)

var pageNames = []string{PageCatalogue, PageDownload, PageLinks, PageLogin, PageDashboard, PageError}

// Page — общие данные layout и данные конкретной страницы.
type Page struct {
	// Title — заголовок страницы; в <title> добавляется " | SiteName"
	Title    string
	SiteName string
	Theme    model.SiteSettings
	// Social — social-preview теги (только download-страница)
	Social *prerender.Meta
	Data   any
}

// Renderer — набор распарсенных страниц.
type Renderer struct {
	pages    map[string]*template.Template
	siteName string
	logger   *slog.Logger
}

// NewRenderer парсит встроенные шаблоны. Каждая страница — layout + свой шаблон.
func NewRenderer(siteName string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("разбор шаблона %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:    pages,
		siteName: siteName,
		logger:   logger.With(slog.String("component", "renderer")),
	}, nil
}

// SiteName возвращает название сайта.
func (r *Renderer) SiteName() string {
	return r.siteName
}

// Render выполняет шаблон в буфер и записывает ответ со статусом status.
// Ошибка шаблона — 500 без частично записанной страницы.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.logger.Error("Неизвестный шаблон", slog.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if page.SiteName == "" {
		page.SiteName = r.siteName
	}
	page.Theme = page.Theme.WithDefaults()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.Error("Ошибка рендеринга шаблона",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ErrorData — данные страницы ошибки.
type ErrorData struct {
	Status  int
	Message string
}

// RenderError рендерит страницу ошибки.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string, theme model.SiteSettings) {
	r.Render(w, status, PageError, &Page{
		Title: message,
		Theme: theme,
		Data:  ErrorData{Status: status, Message: message},
	})
}

// StaticHandler раздаёт встроенные ресурсы по /static/*.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
