// Пакет slug — вычисление URL-safe идентификатора записи из заголовка.
package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Make вычисляет slug из заголовка.
// Пробельные последовательности заменяются дефисом, всё кроме [A-Za-z0-9-]
// удаляется, повторные дефисы схлопываются, крайние дефисы обрезаются.
// Регистр сохраняется. Пустой результат — вызывающий подставляет Fallback.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	// lastHyphen — последний записанный символ был дефисом (схлопывание)
	lastHyphen := true
	for _, r := range title {
		switch {
		case isSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastHyphen = false
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// isSpace повторяет класс \s регулярных выражений ECMAScript:
// U+FEFF входит в него, U+0085 нет.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// Fallback возвращает slug на основе времени: "file-<unix-millis>".
func Fallback(now time.Time) string {
	return "file-" + strconv.FormatInt(now.UnixMilli(), 10)
}
