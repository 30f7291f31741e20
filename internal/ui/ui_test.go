package ui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebdaradal/Nsfwph/internal/catalogue"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/prerender"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("Test Garden", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *Renderer, status int, name string, page *Page) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Render(rec, status, name, page)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

func TestRenderer_Catalogue(t *testing.T) {
	r := newTestRenderer(t)
	records := []model.FileRecord{
		{ID: "id-1", Slug: "summer-pack", Title: "Summer Pack", Thumbnail: "https://cdn.example/s.png"},
		{ID: "id-2", Title: "Legacy"},
	}

	rec, doc := render(t, r, http.StatusOK, PageCatalogue, &Page{
		Data: CatalogueData{
			Page:  catalogue.Paginate(records, "", 1),
			Links: []model.LinkRedirect{{Title: "Channel", ButtonLink: "https://t.me/channel"}},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Test Garden", doc.Find("title").Text())

	cards := doc.Find("a.catalogue-card")
	require.Equal(t, 2, cards.Length())
	href, _ := cards.Eq(0).Attr("href")
	assert.Equal(t, "/file/summer-pack", href)
	href, _ = cards.Eq(1).Attr("href")
	assert.Equal(t, "/file/id-2", href, "без slug ссылка строится по id")
	assert.Equal(t, "No image", strings.TrimSpace(cards.Eq(1).Find(".catalogue-card-placeholder").Text()))

	assert.Equal(t, 0, doc.Find("nav.pagination").Length(), "одна страница — без пагинации")

	link := doc.Find("#join a.link-item")
	require.Equal(t, 1, link.Length())
	target, _ := link.Attr("target")
	assert.Equal(t, "_blank", target)
}

func TestRenderer_CatalogueEmptyAndPaged(t *testing.T) {
	r := newTestRenderer(t)

	_, doc := render(t, r, http.StatusOK, PageCatalogue, &Page{
		Data: CatalogueData{Page: catalogue.Paginate(nil, "zzz", 1)},
	})
	assert.Equal(t, "No files found.", strings.TrimSpace(doc.Find(".catalogue-empty").Text()))
	q, _ := doc.Find("input[name=q]").Attr("value")
	assert.Equal(t, "zzz", q)

	records := make([]model.FileRecord, 10)
	for i := range records {
		records[i] = model.FileRecord{ID: "id", Title: "T"}
	}
	_, doc = render(t, r, http.StatusOK, PageCatalogue, &Page{
		Data: CatalogueData{Page: catalogue.Paginate(records, "", 1), NextURL: "/?page=2"},
	})
	assert.Equal(t, "Page 1 of 2", doc.Find(".page-info").Text())
	next, _ := doc.Find(`a[aria-label="Next page"]`).Attr("href")
	assert.Equal(t, "/?page=2", next)
}

func TestRenderer_DownloadSocialTags(t *testing.T) {
	r := newTestRenderer(t)
	meta := prerender.NewMeta(`Pack "A" & <B>`, "", "/thumbs/a.png", "https://site.example")

	_, doc := render(t, r, http.StatusOK, PageDownload, &Page{
		Title:  `Pack "A" & <B>`,
		Social: &meta,
		Theme:  model.SiteSettings{ButtonColor: "#ff0000"},
		Data: DownloadData{
			File: model.FileRecord{Slug: "pack-a-b", Title: `Pack "A" & <B>`, DownloadLink: "https://mirror/x.zip", Subtitle: "12mb size"},
		},
	})

	assert.Equal(t, `Pack "A" & <B> | Test Garden`, doc.Find("title").Text())
	og, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	assert.Equal(t, `Pack "A" & <B>`, og)
	img, _ := doc.Find(`meta[name="twitter:image"]`).Attr("content")
	assert.Equal(t, "https://site.example/thumbs/a.png", img)
	card, _ := doc.Find(`meta[name="twitter:card"]`).Attr("content")
	assert.Equal(t, "summary_large_image", card)

	btn := doc.Find("a.download-button")
	assert.Equal(t, `Download Pack "A" & <B>.zip`, btn.Text())
	href, _ := btn.Attr("href")
	assert.Equal(t, "/file/pack-a-b/download", href)

	assert.Contains(t, doc.Find("style").Text(), "--primary-color: #ff0000")
	assert.Contains(t, doc.Find("style").Text(), "--background-color: "+model.DefaultBackgroundColor, "пустые цвета заменяются значениями по умолчанию")
	assert.Equal(t, 0, doc.Find(".links-section").Length(), "без редиректов секция не выводится")
}

func TestRenderer_DownloadLegacyID(t *testing.T) {
	r := newTestRenderer(t)

	// Data передаётся значением: ключ адресации берётся из неадресуемой записи.
	rec, doc := render(t, r, http.StatusOK, PageDownload, &Page{
		Title: "Old Pack",
		Data: DownloadData{
			File: model.FileRecord{ID: "0b6c1f9e-legacy", Title: "Old Pack", DownloadLink: "https://mirror/old.zip"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	href, _ := doc.Find("a.download-button").Attr("href")
	assert.Equal(t, "/file/0b6c1f9e-legacy/download", href)
}

func TestRenderer_Error(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()
	r.RenderError(rec, http.StatusNotFound, "File not found", model.SiteSettings{})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "File not found", doc.Find(".error-message").Text())
}

func TestRenderer_Dashboard(t *testing.T) {
	r := newTestRenderer(t)

	_, doc := render(t, r, http.StatusOK, PageDashboard, &Page{
		Title: "Dashboard",
		Data: DashboardData{
			Origin:   "https://site.example",
			Files:    []model.FileRecord{{ID: "f1", Slug: "pack", Title: "Pack", Subtitle: "5mb size"}},
			Settings: model.DefaultSettings(),
			FileForm: FileForm{ID: "f1", Title: "Pack", Size: "5"},
		},
	})

	action, _ := doc.Find("#files form.dashboard-form").Attr("action")
	assert.Equal(t, "/dashboard/files/f1", action)
	size, _ := doc.Find(`#files input[name=size]`).Attr("value")
	assert.Equal(t, "5", size)
	copyLink, _ := doc.Find("input.copy-link").Attr("value")
	assert.Equal(t, "https://site.example/file/pack", copyLink)
	linkAction, _ := doc.Find("#links form.dashboard-form").Attr("action")
	assert.Equal(t, "/dashboard/links", linkAction)
	color, _ := doc.Find(`input[name=button_color]`).Attr("value")
	assert.Equal(t, model.DefaultButtonColor, color)
}

func TestRenderer_UnknownPage(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "missing", &Page{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStaticHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--primary-color")
}
