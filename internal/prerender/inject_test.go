package prerender

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shell — упрощённый index.html собранного сайта.
const shell = `<!doctype html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<title>Ultra Garden of PH</title>
<meta property="og:title" content="Ultra Garden of PH" />
<meta property="og:description" content="File catalogue and downloads" />
<meta property="og:image" content="/og.png"/>
<meta name="twitter:title" content="Ultra Garden of PH">
<meta name="twitter:description" content="File catalogue and downloads" />
<meta name="twitter:image" content="/og.png" />
</head>
<body><div id="root"></div></body>
</html>`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func metaContent(doc *goquery.Document, attr, name string) string {
	v, _ := doc.Find(`meta[` + attr + `="` + name + `"]`).Attr("content")
	return v
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name  string
		site  string
		thumb string
		want  string
	}{
		{"относительный путь", "https://example.com", "abc.png", "https://example.com/abc.png"},
		{"абсолютный URL", "https://example.com", "https://cdn.x/y.png", "https://cdn.x/y.png"},
		{"ведущий слэш", "https://example.com", "/img/a.png", "https://example.com/img/a.png"},
		{"слэш в site URL", "https://example.com/", "a.png", "https://example.com/a.png"},
		{"другая схема", "https://example.com", "data:image/png;base64,AA", "data:image/png;base64,AA"},
		{"http", "https://example.com", "http://old.cdn/y.png", "http://old.cdn/y.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageURL(tt.site, tt.thumb))
		})
	}
}

func TestNewMeta_Fallbacks(t *testing.T) {
	m := NewMeta("", "", "a.png", "https://s")
	assert.Equal(t, SiteName, m.Title)
	assert.Equal(t, DefaultDescription, m.Description)

	m = NewMeta("Title", "", "a.png", "https://s")
	assert.Equal(t, "Title", m.Description, "описание берётся из заголовка")

	m = NewMeta("Title", "12mb size", "a.png", "https://s")
	assert.Equal(t, "12mb size", m.Description)
}

func TestEscapeAttr(t *testing.T) {
	assert.Equal(t, `a &amp; b &quot;c&quot; &lt;d&gt;`, EscapeAttr(`a & b "c" <d>`))
	assert.Equal(t, "", EscapeAttr(""))
}

func TestInject(t *testing.T) {
	out := Inject(shell, Meta{Title: "Summer Pack", Description: "12mb size", Image: "https://cdn.x/y.png"})
	doc := parse(t, out)

	assert.Equal(t, "Summer Pack | Ultra Garden of PH", doc.Find("title").Text())
	assert.Equal(t, "Summer Pack", metaContent(doc, "property", "og:title"))
	assert.Equal(t, "12mb size", metaContent(doc, "property", "og:description"))
	assert.Equal(t, "https://cdn.x/y.png", metaContent(doc, "property", "og:image"))
	assert.Equal(t, "Summer Pack", metaContent(doc, "name", "twitter:title"))
	assert.Equal(t, "12mb size", metaContent(doc, "name", "twitter:description"))
	assert.Equal(t, "https://cdn.x/y.png", metaContent(doc, "name", "twitter:image"))
	assert.Contains(t, out, `<div id="root"></div>`)
}

func TestInject_EscapesQuoteAndLt(t *testing.T) {
	title := `Evil" /><script>alert(1)</script>`
	out := Inject(shell, Meta{Title: title, Description: `<b>bold</b> "desc"`, Image: "https://x/a.png"})
	doc := parse(t, out)

	assert.Equal(t, 0, doc.Find("script").Length(), "тег script не должен появиться")
	assert.Equal(t, title, metaContent(doc, "property", "og:title"))
	assert.Equal(t, `<b>bold</b> "desc"`, metaContent(doc, "name", "twitter:description"))
	assert.Equal(t, 1, doc.Find(`meta[property="og:title"]`).Length())
	assert.NotContains(t, out, `content="Evil" /`)
}

func TestInject_FirstOccurrenceOnly(t *testing.T) {
	html := shell + `<title>second</title>`
	out := Inject(html, Meta{Title: "T", Description: "D", Image: "I"})

	assert.Equal(t, 1, strings.Count(out, "<title>T | Ultra Garden of PH</title>"))
	assert.Contains(t, out, "<title>second</title>")
}

func TestInject_MissingTagsUntouched(t *testing.T) {
	html := `<html><head><title>x</title></head></html>`
	out := Inject(html, Meta{Title: "T"})
	assert.Equal(t, `<html><head><title>T | Ultra Garden of PH</title></head></html>`, out)
}
