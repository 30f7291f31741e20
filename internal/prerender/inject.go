package prerender

import (
	"regexp"
	"strings"
)

// SiteName — суффикс <title> и fallback заголовка.
const SiteName = "Ultra Garden of PH"

// DefaultDescription — описание, если у записи нет ни подзаголовка, ни заголовка.
const DefaultDescription = "File catalogue and downloads"

// Meta — значения social-preview тегов одной записи (без экранирования).
type Meta struct {
	Title       string
	Description string
	Image       string
}

var (
	titleTagRe = regexp.MustCompile(`<title>[^<]*</title>`)
	schemeRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
	attrEscape = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
)

// metaTag — заменяемый meta-тег шаблона.
type metaTag struct {
	re    *regexp.Regexp
	attr  string
	name  string
	value func(title, desc, image string) string
}

func metaRe(attr, name string) *regexp.Regexp {
	return regexp.MustCompile(`<meta ` + attr + `="` + regexp.QuoteMeta(name) + `" content="[^"]*"\s*/?>`)
}

var metaTags = []metaTag{
	{metaRe("property", "og:title"), "property", "og:title", func(t, _, _ string) string { return t }},
	{metaRe("property", "og:description"), "property", "og:description", func(_, d, _ string) string { return d }},
	{metaRe("property", "og:image"), "property", "og:image", func(_, _, i string) string { return i }},
	{metaRe("name", "twitter:title"), "name", "twitter:title", func(t, _, _ string) string { return t }},
	{metaRe("name", "twitter:description"), "name", "twitter:description", func(_, d, _ string) string { return d }},
	{metaRe("name", "twitter:image"), "name", "twitter:image", func(_, _, i string) string { return i }},
}

// EscapeAttr экранирует & " < > для подстановки в значение HTML-атрибута.
func EscapeAttr(s string) string {
	return attrEscape.Replace(s)
}

// HasScheme сообщает, начинается ли ссылка со схемы URI (https:, data: и т.п.).
func HasScheme(ref string) bool {
	return schemeRe.MatchString(ref)
}

// ImageURL возвращает абсолютный URL миниатюры.
// Ссылка со схемой используется как есть, иначе присоединяется к siteURL
// ровно через один "/".
func ImageURL(siteURL, thumbnail string) string {
	if HasScheme(thumbnail) {
		return thumbnail
	}
	return strings.TrimRight(siteURL, "/") + "/" + strings.TrimLeft(thumbnail, "/")
}

// NewMeta вычисляет заголовок, описание и изображение для записи.
func NewMeta(title, subtitle, thumbnail, siteURL string) Meta {
	m := Meta{
		Title:       title,
		Description: subtitle,
		Image:       ImageURL(siteURL, thumbnail),
	}
	if m.Title == "" {
		m.Title = SiteName
	}
	if m.Description == "" {
		m.Description = title
	}
	if m.Description == "" {
		m.Description = DefaultDescription
	}
	return m
}

// Inject подставляет meta в HTML-шаблон.
// Заменяется только первое вхождение <title> и каждого из шести meta-тегов;
// отсутствующий в шаблоне тег пропускается.
func Inject(html string, m Meta) string {
	title := EscapeAttr(m.Title)
	desc := EscapeAttr(m.Description)
	image := EscapeAttr(m.Image)

	out := replaceFirst(html, titleTagRe, "<title>"+title+" | "+SiteName+"</title>")
	for _, tag := range metaTags {
		repl := `<meta ` + tag.attr + `="` + tag.name + `" content="` + tag.value(title, desc, image) + `" />`
		out = replaceFirst(out, tag.re, repl)
	}
	return out
}

// replaceFirst заменяет первое совпадение re литеральной строкой repl.
func replaceFirst(s string, re *regexp.Regexp, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
