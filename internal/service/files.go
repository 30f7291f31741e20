// files.go — сервис записей каталога для дашборда.
// Slug вычисляется здесь, при каждой записи, и больше нигде не пересчитывается.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/objectstore"
	"github.com/calebdaradal/Nsfwph/internal/repository"
	"github.com/calebdaradal/Nsfwph/internal/slug"
)

// sizeSuffixRe — суффикс "mb size" подзаголовка.
var sizeSuffixRe = regexp.MustCompile(`(?i)\s*mb\s*size$`)

// FileInput — данные формы записи каталога.
type FileInput struct {
	Title        string
	DownloadLink string
	// Size — размер в МБ; сохраняются только цифры
	Size      string
	Thumbnail *Upload
}

// FileService — создание, изменение и удаление записей каталога.
type FileService struct {
	repo        repository.FileRepository
	thumbs      thumbnails
	invalidates []Invalidator
	now         func() time.Time
	logger      *slog.Logger
}

// NewFileService создаёт сервис записей каталога.
// invalidates — кэши, сбрасываемые после каждой записи.
func NewFileService(
	repo repository.FileRepository,
	store ThumbnailStore,
	logger *slog.Logger,
	invalidates ...Invalidator,
) *FileService {
	logger = logger.With(slog.String("component", "file_service"))
	return &FileService{
		repo:        repo,
		thumbs:      thumbnails{store: store, folder: objectstore.FolderFiles, logger: logger},
		invalidates: invalidates,
		now:         time.Now,
		logger:      logger,
	}
}

// List возвращает все записи (новые первыми) без кэша.
func (s *FileService) List(ctx context.Context) ([]model.FileRecord, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список файлов: %w", err)
	}
	return files, nil
}

// Get возвращает запись по id.
func (s *FileService) Get(ctx context.Context, id string) (*model.FileRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение файла: %w", err)
	}
	return f, nil
}

// Create создаёт запись каталога.
func (s *FileService) Create(ctx context.Context, in FileInput) (*model.FileRecord, error) {
	f := &model.FileRecord{}
	if err := s.apply(f, in); err != nil {
		return nil, err
	}

	thumb, err := s.thumbs.replace(ctx, "", in.Thumbnail)
	if err != nil {
		return nil, err
	}
	f.Thumbnail = thumb

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("создание файла: %w", err)
	}

	s.written("create", f)
	return f, nil
}

// Update изменяет запись. Slug пересчитывается из нового заголовка.
// Новая миниатюра заменяет старую, старая удаляется best-effort.
func (s *FileService) Update(ctx context.Context, id string, in FileInput) (*model.FileRecord, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(f, in); err != nil {
		return nil, err
	}

	thumb, err := s.thumbs.replace(ctx, f.Thumbnail, in.Thumbnail)
	if err != nil {
		return nil, err
	}
	f.Thumbnail = thumb

	if err := s.repo.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление файла: %w", err)
	}

	s.written("update", f)
	return f, nil
}

// Delete удаляет запись и best-effort её миниатюру.
func (s *FileService) Delete(ctx context.Context, id string) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление файла: %w", err)
	}
	s.thumbs.remove(ctx, f.Thumbnail)

	s.written("delete", f)
	return nil
}

// apply валидирует форму и переносит поля в запись.
func (s *FileService) apply(f *model.FileRecord, in FileInput) error {
	title := cleanText(in.Title)
	if title == "" {
		return fmt.Errorf("%w: заголовок обязателен", ErrValidation)
	}
	link, err := validateHTTPURL("ссылка скачивания", in.DownloadLink)
	if err != nil {
		return err
	}

	f.Title = title
	f.DownloadLink = link
	f.Subtitle = NormalizeSize(in.Size)
	f.Slug = slug.Make(title)
	if f.Slug == "" {
		f.Slug = slug.Fallback(s.now())
	}
	return nil
}

func (s *FileService) written(op string, f *model.FileRecord) {
	invalidateAll(s.invalidates)
	dashboardWritesTotal.WithLabelValues("file", op).Inc()
	s.logger.Info("Запись каталога изменена",
		slog.String("op", op),
		slog.String("id", f.ID),
		slog.String("slug", f.Slug),
	)
}

// NormalizeSize оставляет только цифры размера: "<n>mb size" или пустая строка.
func NormalizeSize(size string) string {
	var b strings.Builder
	for _, r := range size {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return b.String() + "mb size"
}

// EditSize возвращает значение поля размера для формы редактирования.
func EditSize(subtitle string) string {
	return strings.TrimSpace(sizeSuffixRe.ReplaceAllString(subtitle, ""))
}
