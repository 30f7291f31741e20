package ui

import (
	"github.com/calebdaradal/Nsfwph/internal/catalogue"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
)

// CatalogueData — данные страницы каталога.
type CatalogueData struct {
	Page  catalogue.Page
	Links []model.LinkRedirect
	// PrevURL, NextURL — ссылки пагинации с сохранённым запросом
	PrevURL string
	NextURL string
}

// DownloadData — данные download-страницы.
type DownloadData struct {
	File  model.FileRecord
	Links []model.LinkRedirect
}

// LoginData — данные формы входа.
type LoginData struct {
	Email string
	Error string
}

// FileForm — значения формы записи каталога.
type FileForm struct {
	ID           string
	Title        string
	Size         string
	DownloadLink string
	Thumbnail    string
}

// LinkForm — значения формы редиректа.
type LinkForm struct {
	ID         string
	Title      string
	ButtonLink string
	Thumbnail  string
}

// DashboardData — данные дашборда.
type DashboardData struct {
	Email    string
	Origin   string
	Files    []model.FileRecord
	Links    []model.LinkRedirect
	Settings model.SiteSettings
	FileForm FileForm
	LinkForm LinkForm
	Notice   string
	Error    string
}
