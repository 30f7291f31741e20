package prerender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/sbclient"
)

// Config — параметры генератора.
type Config struct {
	// BackendURL — URL проекта BaaS
	BackendURL string
	// AccessKey — публичный ключ REST
	AccessKey string
	// SiteURL — базовый URL сайта для относительных миниатюр (без завершающего /)
	SiteURL string
	// DistDir — каталог собранного сайта (содержит index.html)
	DistDir string
}

// Fetcher читает записи каталога из BaaS.
type Fetcher interface {
	ListCatalogue(ctx context.Context) ([]model.FileRecord, error)
}

// Run выполняет генерацию. Никогда не паникует и не возвращает ошибку напрямую:
// каждый исход описывается Result.
//
// Порядок шагов:
//  1. Проверка конфигурации (ConfigMissing — пропуск)
//  2. Чтение <dist>/index.html (TemplateMissing — ошибка сборки)
//  3. Запрос каталога (NetworkFailure / BackendStatus / EmptyResult — пропуск)
//  4. Запись <dist>/file/<slug>/index.html для каждой записи
func Run(ctx context.Context, cfg Config, fetcher Fetcher, logger *slog.Logger) Result {
	if cfg.BackendURL == "" || cfg.AccessKey == "" {
		logger.Warn("Не заданы VITE_SUPABASE_URL или VITE_SUPABASE_ANON_KEY, шаг пропущен")
		return skipped(ReasonConfigMissing, nil)
	}

	indexPath := filepath.Join(cfg.DistDir, "index.html")
	tmpl, err := os.ReadFile(indexPath)
	if err != nil {
		logger.Error("Шаблон не найден (сборка сайта не выполнялась?)",
			slog.String("path", indexPath),
			slog.String("error", err.Error()),
		)
		return Result{Outcome: OutcomeFailed, Reason: ReasonTemplateMissing, Err: err}
	}

	records, err := fetcher.ListCatalogue(ctx)
	if err != nil {
		return fetchFailed(err, logger)
	}
	if len(records) == 0 {
		logger.Info("Каталог пуст, шаг пропущен")
		return skipped(ReasonEmptyResult, nil)
	}

	res := Result{Outcome: OutcomeWritten}
	html := string(tmpl)
	fileRoot := filepath.Join(cfg.DistDir, "file")

	for i := range records {
		rec := &records[i]
		if err := writeRecord(fileRoot, html, rec, cfg.SiteURL); err != nil {
			res.Skipped++
			logger.Warn("Запись пропущена",
				slog.String("id", rec.ID),
				slog.String("slug", rec.Slug),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.Written++
	}

	logger.Info("Social-preview страницы записаны",
		slog.Int("written", res.Written),
		slog.Int("skipped", res.Skipped),
		slog.String("path", filepath.Join(fileRoot, "<slug>", "index.html")),
	)
	return res
}

// Ошибки обработки отдельной записи.
var (
	errNoSlug     = errors.New("нет ни slug, ни id")
	errUnsafeSlug = errors.New("slug выходит за пределы каталога file/")
)

// writeRecord пишет документ одной записи.
func writeRecord(fileRoot, html string, rec *model.FileRecord, siteURL string) error {
	key := rec.PathKey()
	if key == "" {
		return errNoSlug
	}
	if !safePathSegment(key) {
		return fmt.Errorf("%w: %q", errUnsafeSlug, key)
	}

	dir := filepath.Join(fileRoot, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание каталога %s: %w", dir, err)
	}

	doc := Inject(html, NewMeta(rec.Title, rec.Subtitle, rec.Thumbnail, siteURL))
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(doc), 0o644); err != nil { //nolint:gosec // G306: статический сайт
		return fmt.Errorf("запись документа: %w", err)
	}
	return nil
}

// safePathSegment — key является одним сегментом пути внутри file/.
func safePathSegment(key string) bool {
	if key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`+"\x00")
}

// fetchFailed классифицирует ошибку запроса каталога.
// Недоступность BaaS и ошибочный статус — WARN, ответ не-список — INFO (как пустой каталог).
func fetchFailed(err error, logger *slog.Logger) Result {
	var se *sbclient.StatusError
	switch {
	case errors.Is(err, sbclient.ErrNotList):
		logger.Info("Ответ BaaS не является списком, шаг пропущен")
		return skipped(ReasonEmptyResult, err)
	case errors.As(err, &se):
		logger.Warn("Запрос к BaaS завершился ошибкой, шаг пропущен",
			slog.Int("status", se.Status),
			slog.String("body", se.Body),
		)
		return skipped(ReasonBackendStatus, err)
	default:
		logger.Warn("BaaS недоступен, шаг пропущен", slog.String("error", err.Error()))
		return skipped(ReasonNetworkFailure, err)
	}
}
