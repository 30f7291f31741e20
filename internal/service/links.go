// links.go — сервис кнопок-редиректов для дашборда и страницы /links.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/objectstore"
	"github.com/calebdaradal/Nsfwph/internal/repository"
)

// LinkInput — данные формы редиректа.
type LinkInput struct {
	Title      string
	ButtonLink string
	Thumbnail  *Upload
}

// LinkService — управление редиректами.
type LinkService struct {
	repo        repository.LinkRedirectRepository
	thumbs      thumbnails
	invalidates []Invalidator
	logger      *slog.Logger
}

// NewLinkService создаёт сервис редиректов.
func NewLinkService(
	repo repository.LinkRedirectRepository,
	store ThumbnailStore,
	logger *slog.Logger,
	invalidates ...Invalidator,
) *LinkService {
	logger = logger.With(slog.String("component", "link_service"))
	return &LinkService{
		repo:        repo,
		thumbs:      thumbnails{store: store, folder: objectstore.FolderLinks, logger: logger},
		invalidates: invalidates,
		logger:      logger,
	}
}

// List возвращает редиректы в порядке создания.
func (s *LinkService) List(ctx context.Context) ([]model.LinkRedirect, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список редиректов: %w", err)
	}
	return links, nil
}

// Get возвращает редирект по id.
func (s *LinkService) Get(ctx context.Context, id string) (*model.LinkRedirect, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение редиректа: %w", err)
	}
	return l, nil
}

// Create создаёт редирект.
func (s *LinkService) Create(ctx context.Context, in LinkInput) (*model.LinkRedirect, error) {
	l := &model.LinkRedirect{}
	if err := applyLink(l, in); err != nil {
		return nil, err
	}

	thumb, err := s.thumbs.replace(ctx, "", in.Thumbnail)
	if err != nil {
		return nil, err
	}
	l.Thumbnail = thumb

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("создание редиректа: %w", err)
	}
	s.written("create", l)
	return l, nil
}

// Update изменяет редирект.
func (s *LinkService) Update(ctx context.Context, id string, in LinkInput) (*model.LinkRedirect, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyLink(l, in); err != nil {
		return nil, err
	}

	thumb, err := s.thumbs.replace(ctx, l.Thumbnail, in.Thumbnail)
	if err != nil {
		return nil, err
	}
	l.Thumbnail = thumb

	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление редиректа: %w", err)
	}
	s.written("update", l)
	return l, nil
}

// Delete удаляет редирект и best-effort его миниатюру.
func (s *LinkService) Delete(ctx context.Context, id string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление редиректа: %w", err)
	}
	s.thumbs.remove(ctx, l.Thumbnail)
	s.written("delete", l)
	return nil
}

func applyLink(l *model.LinkRedirect, in LinkInput) error {
	title := cleanText(in.Title)
	if title == "" {
		return fmt.Errorf("%w: заголовок обязателен", ErrValidation)
	}
	link, err := validateHTTPURL("ссылка кнопки", in.ButtonLink)
	if err != nil {
		return err
	}
	l.Title = title
	l.ButtonLink = link
	return nil
}

func (s *LinkService) written(op string, l *model.LinkRedirect) {
	invalidateAll(s.invalidates)
	dashboardWritesTotal.WithLabelValues("link", op).Inc()
	s.logger.Info("Редирект изменён",
		slog.String("op", op),
		slog.String("id", l.ID),
	)
}
