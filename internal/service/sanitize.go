package service

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy удаляет любую разметку из пользовательского текста.
var textPolicy = bluemonday.StrictPolicy()

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// cleanText убирает HTML и крайние пробелы. Сущности раскодируются:
// экранирование выполняет шаблон при выводе.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// validateHTTPURL проверяет, что ссылка — абсолютный http(s) URL.
func validateHTTPURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: %s обязательна", ErrValidation, field)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s должна быть http(s) ссылкой", ErrValidation, field)
	}
	return raw, nil
}

// validColor проверяет формат #rgb / #rrggbb.
func validColor(s string) bool {
	return hexColorRe.MatchString(s)
}
