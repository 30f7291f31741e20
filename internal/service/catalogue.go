// catalogue.go — сервис публичного каталога: список записей через кэш,
// фильтрация и пагинация.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/calebdaradal/Nsfwph/internal/catalogue"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/repository"
)

// catalogueCacheKey — ключ полного списка в кэше.
const catalogueCacheKey = "files"

// Prometheus-метрики каталога.
var (
	catalogueViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cat_catalogue_views_total",
		Help: "Количество просмотров страниц каталога (search — с непустым запросом).",
	}, []string{"kind"})
	catalogueLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cat_catalogue_load_duration_seconds",
		Help:    "Длительность загрузки списка каталога из PostgreSQL.",
		Buckets: prometheus.DefBuckets,
	})
)

// CatalogueService — сервис публичного каталога.
type CatalogueService struct {
	files  repository.FileRepository
	cache  *CacheService[[]model.FileRecord]
	logger *slog.Logger
}

// NewCatalogueService создаёт сервис каталога.
func NewCatalogueService(
	files repository.FileRepository,
	cache *CacheService[[]model.FileRecord],
	logger *slog.Logger,
) *CatalogueService {
	return &CatalogueService{
		files:  files,
		cache:  cache,
		logger: logger.With(slog.String("component", "catalogue_service")),
	}
}

// List возвращает все записи, новые первыми.
// Сначала проверяет кэш, при промахе — запрос к PostgreSQL.
func (s *CatalogueService) List(ctx context.Context) ([]model.FileRecord, error) {
	if files, ok := s.cache.Get(catalogueCacheKey); ok {
		return files, nil
	}

	start := time.Now()
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка каталога: %w", err)
	}
	catalogueLoadDuration.Observe(time.Since(start).Seconds())

	s.cache.Set(catalogueCacheKey, files)
	s.logger.Debug("Каталог загружен", slog.Int("count", len(files)))
	return files, nil
}

// Page возвращает видимую страницу каталога для запроса и номера страницы.
func (s *CatalogueService) Page(ctx context.Context, query string, page int) (catalogue.Page, error) {
	files, err := s.List(ctx)
	if err != nil {
		return catalogue.Page{}, err
	}

	kind := "browse"
	if strings.TrimSpace(query) != "" {
		kind = "search"
	}
	catalogueViewsTotal.WithLabelValues(kind).Inc()

	return catalogue.Paginate(files, query, page), nil
}

// Invalidate сбрасывает кэш после изменения записей.
func (s *CatalogueService) Invalidate() {
	s.cache.Purge()
}
