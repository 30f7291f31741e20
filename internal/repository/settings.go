package repository

import (
	"context"
	"fmt"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
)

// SettingsRepository — доступ к singleton-строке настроек темы.
type SettingsRepository interface {
	// Get возвращает настройки. Если строки нет — ErrNotFound.
	Get(ctx context.Context) (*model.SiteSettings, error)
	// Save создаёт или перезаписывает строку (last writer wins).
	Save(ctx context.Context, s *model.SiteSettings) error
}

type settingsRepo struct {
	db DBTX
}

// NewSettingsRepository создаёт репозиторий настроек.
func NewSettingsRepository(db DBTX) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.SiteSettings, error) {
	query := `
		SELECT button_color, background_color, card_background,
		       text_primary, text_secondary, updated_at
		FROM settings
		WHERE id = 1`

	s := &model.SiteSettings{}
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ButtonColor, &s.BackgroundColor, &s.CardBackground,
		&s.TextPrimary, &s.TextSecondary, &s.UpdatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) Save(ctx context.Context, s *model.SiteSettings) error {
	query := `
		INSERT INTO settings (id, button_color, background_color, card_background, text_primary, text_secondary, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			button_color     = EXCLUDED.button_color,
			background_color = EXCLUDED.background_color,
			card_background  = EXCLUDED.card_background,
			text_primary     = EXCLUDED.text_primary,
			text_secondary   = EXCLUDED.text_secondary,
			updated_at       = EXCLUDED.updated_at
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ButtonColor, s.BackgroundColor, s.CardBackground, s.TextPrimary, s.TextSecondary,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек: %w", err)
	}
	return nil
}
