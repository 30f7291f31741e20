// settings.go — сервис настроек темы (singleton).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/repository"
)

const settingsCacheKey = "settings"

// SettingsService — чтение и сохранение настроек темы.
type SettingsService struct {
	repo   repository.SettingsRepository
	cache  *CacheService[model.SiteSettings]
	logger *slog.Logger
}

// NewSettingsService создаёт сервис настроек.
func NewSettingsService(
	repo repository.SettingsRepository,
	cache *CacheService[model.SiteSettings],
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("component", "settings_service")),
	}
}

// Get возвращает настройки; отсутствующая строка или пустые поля заменяются значениями по умолчанию.
func (s *SettingsService) Get(ctx context.Context) (model.SiteSettings, error) {
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		return cached, nil
	}

	stored, err := s.repo.Get(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		stored = &model.SiteSettings{}
	case err != nil:
		return model.DefaultSettings(), fmt.Errorf("получение настроек: %w", err)
	}

	settings := stored.WithDefaults()
	s.cache.Set(settingsCacheKey, settings)
	return settings, nil
}

// Save проверяет цвета (#rgb или #rrggbb) и сохраняет настройки.
func (s *SettingsService) Save(ctx context.Context, in model.SiteSettings) (model.SiteSettings, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"button_color", &in.ButtonColor},
		{"background_color", &in.BackgroundColor},
		{"card_background", &in.CardBackground},
		{"text_primary", &in.TextPrimary},
		{"text_secondary", &in.TextSecondary},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if !validColor(*f.value) {
			return in, fmt.Errorf("%w: %s — ожидается цвет #rgb или #rrggbb, получено %q", ErrValidation, f.name, *f.value)
		}
	}

	if err := s.repo.Save(ctx, &in); err != nil {
		return in, fmt.Errorf("сохранение настроек: %w", err)
	}
	s.cache.Purge()

	s.logger.Info("Настройки темы сохранены")
	return in, nil
}

// Reset возвращает значения по умолчанию для формы (без сохранения).
func (s *SettingsService) Reset() model.SiteSettings {
	return model.DefaultSettings()
}

// Invalidate сбрасывает кэш настроек.
func (s *SettingsService) Invalidate() {
	s.cache.Purge()
}
