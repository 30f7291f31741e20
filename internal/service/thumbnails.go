package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/calebdaradal/Nsfwph/internal/objectstore"
)

var dashboardWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cat_dashboard_writes_total",
	Help: "Количество изменений из дашборда (по сущности и операции).",
}, []string{"entity", "op"})

// ThumbnailStore — object storage для миниатюр.
type ThumbnailStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// Invalidator — кэш, который сбрасывается после записи.
type Invalidator interface {
	Invalidate()
}

// Upload — загружаемый из формы файл миниатюры.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// thumbnails — общая логика замены миниатюр для файлов и редиректов.
type thumbnails struct {
	store  ThumbnailStore
	folder string
	logger *slog.Logger
}

// replace загружает новую миниатюру и best-effort удаляет старую.
// Без загрузки возвращает current.
func (t thumbnails) replace(ctx context.Context, current string, up *Upload) (string, error) {
	if up == nil {
		return current, nil
	}

	newURL, err := t.store.Upload(ctx, t.folder, up.Filename, up.ContentType, up.Body)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotImage) || errors.Is(err, objectstore.ErrTooLarge) {
			return "", fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return "", fmt.Errorf("загрузка миниатюры: %w", err)
	}

	t.remove(ctx, current)
	return newURL, nil
}

// remove best-effort удаляет объект миниатюры (внешние ссылки не трогаются).
func (t thumbnails) remove(ctx context.Context, thumbURL string) {
	objectPath, ok := objectstore.ExtractPath(thumbURL)
	if !ok {
		return
	}
	if err := t.store.Delete(ctx, objectPath); err != nil {
		t.logger.Warn("Не удалось удалить старую миниатюру",
			slog.String("path", objectPath),
			slog.String("error", err.Error()),
		)
	}
}

func invalidateAll(invs []Invalidator) {
	for _, inv := range invs {
		inv.Invalidate()
	}
}
