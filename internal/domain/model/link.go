package model

import "time"

// LinkRedirect — кнопка-редирект на странице /links.
// Списки упорядочены по CreatedAt (порядок вставки).
type LinkRedirect struct {
	ID         string
	Title      string
	ButtonLink string
	Thumbnail  string
	CreatedAt  time.Time
}
