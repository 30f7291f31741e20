// Пакет model — доменные модели каталога.
// FileRecord — маппинг таблицы files, LinkRedirect — link_redirects,
// SiteSettings — singleton-строка settings.
package model

import "time"

// FileRecord — запись каталога (файл с download-страницей).
// Slug вычисляется один раз при записи из дашборда и не пересчитывается при чтении.
type FileRecord struct {
	// ID — UUID записи (legacy-адрес /file/<id>)
	ID string `json:"id"`
	// Slug — URL-safe идентификатор, производный от Title на момент записи
	Slug string `json:"slug"`
	// Title — заголовок
	Title string `json:"title"`
	// Thumbnail — абсолютный URL или относительный путь миниатюры
	Thumbnail string `json:"thumbnail"`
	// Subtitle — свободный текст, по соглашению "<n>mb size"
	Subtitle string `json:"subtitle"`
	// DownloadLink — прямая ссылка на скачивание
	DownloadLink string `json:"download_link,omitempty"`
	// CreatedAt — время создания записи
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// PathKey возвращает ключ адресации записи: slug, иначе id.
// Пустая строка — запись невозможно адресовать.
func (f FileRecord) PathKey() string {
	if f.Slug != "" {
		return f.Slug
	}
	return f.ID
}
