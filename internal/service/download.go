// download.go — сервис публичной download-страницы.
// Запись ищется по slug, затем по legacy id; к ней добавляются редиректы и тема.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/repository"
)

// Prometheus-метрики download-страницы.
var (
	downloadPageViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cat_download_page_views_total",
		Help: "Количество просмотров download-страниц (по способу поиска записи).",
	}, []string{"lookup"})
	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cat_downloads_total",
		Help: "Количество переходов на прямую ссылку скачивания (по статусу).",
	}, []string{"status"})
)

// DownloadPage — данные download-страницы.
type DownloadPage struct {
	File     model.FileRecord
	Links    []model.LinkRedirect
	Settings model.SiteSettings
}

// DownloadPageService — сервис download-страницы.
type DownloadPageService struct {
	files    repository.FileRepository
	links    repository.LinkRedirectRepository
	settings *SettingsService
	cache    *CacheService[model.FileRecord]
	logger   *slog.Logger
}

// NewDownloadPageService создаёт сервис download-страницы.
func NewDownloadPageService(
	files repository.FileRepository,
	links repository.LinkRedirectRepository,
	settings *SettingsService,
	cache *CacheService[model.FileRecord],
	logger *slog.Logger,
) *DownloadPageService {
	return &DownloadPageService{
		files:    files,
		links:    links,
		settings: settings,
		cache:    cache,
		logger:   logger.With(slog.String("component", "download_service")),
	}
}

// Lookup находит запись по slug, затем по legacy id.
// Legacy id проверяется только если ключ — корректный UUID.
func (s *DownloadPageService) Lookup(ctx context.Context, key string) (*model.FileRecord, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	if cached, ok := s.cache.Get(key); ok {
		return &cached, nil
	}

	rec, err := s.files.GetBySlug(ctx, key)
	lookup := "slug"
	if errors.Is(err, repository.ErrNotFound) {
		if _, parseErr := uuid.Parse(key); parseErr != nil {
			return nil, ErrNotFound
		}
		rec, err = s.files.GetByID(ctx, key)
		lookup = "id"
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("поиск записи %q: %w", key, err)
	}

	downloadPageViewsTotal.WithLabelValues(lookup).Inc()
	s.cache.Set(key, *rec)
	return rec, nil
}

// Load собирает download-страницу. Ошибки загрузки редиректов и темы
// не ломают страницу: используются пустой список и тема по умолчанию.
func (s *DownloadPageService) Load(ctx context.Context, key string) (*DownloadPage, error) {
	rec, err := s.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	page := &DownloadPage{File: *rec}

	links, err := s.links.List(ctx)
	if err != nil {
		s.logger.Warn("Редиректы не загружены", slog.String("error", err.Error()))
	}
	page.Links = links

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn("Настройки не загружены, используется тема по умолчанию",
			slog.String("error", err.Error()),
		)
	}
	page.Settings = settings

	return page, nil
}

// DownloadTarget возвращает прямую ссылку скачивания записи.
func (s *DownloadPageService) DownloadTarget(ctx context.Context, key string) (string, error) {
	rec, err := s.Lookup(ctx, key)
	if err != nil {
		downloadsTotal.WithLabelValues("not_found").Inc()
		return "", err
	}
	if rec.DownloadLink == "" {
		downloadsTotal.WithLabelValues("no_link").Inc()
		return "", ErrNotFound
	}

	downloadsTotal.WithLabelValues("redirect").Inc()
	s.logger.Debug("Переход на скачивание",
		slog.String("key", key),
		slog.String("file_id", rec.ID),
	)
	return rec.DownloadLink, nil
}

// Invalidate сбрасывает кэш записей.
func (s *DownloadPageService) Invalidate() {
	s.cache.Purge()
}
