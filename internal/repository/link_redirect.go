package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
)

const linkColumns = `id::text, title, button_link, thumbnail, created_at`

// LinkRedirectRepository — доступ к кнопкам-редиректам.
type LinkRedirectRepository interface {
	// List возвращает редиректы в порядке создания.
	List(ctx context.Context) ([]model.LinkRedirect, error)
	GetByID(ctx context.Context, id string) (*model.LinkRedirect, error)
	Create(ctx context.Context, l *model.LinkRedirect) error
	Update(ctx context.Context, l *model.LinkRedirect) error
	Delete(ctx context.Context, id string) error
}

type linkRedirectRepo struct {
	db DBTX
}

// NewLinkRedirectRepository создаёт репозиторий редиректов.
func NewLinkRedirectRepository(db DBTX) LinkRedirectRepository {
	return &linkRedirectRepo{db: db}
}

func (r *linkRedirectRepo) List(ctx context.Context) ([]model.LinkRedirect, error) {
	query := fmt.Sprintf(`SELECT %s FROM link_redirects ORDER BY created_at ASC, id`, linkColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения редиректов: %w", err)
	}
	links, err := pgx.CollectRows(rows, scanLink)
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования редиректов: %w", err)
	}
	return links, nil
}

func (r *linkRedirectRepo) GetByID(ctx context.Context, id string) (*model.LinkRedirect, error) {
	query := fmt.Sprintf(`SELECT %s FROM link_redirects WHERE id = $1`, linkColumns)

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения редиректа: %w", err)
	}
	l, err := pgx.CollectOneRow(rows, scanLink)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения редиректа: %w", err)
	}
	return &l, nil
}

func (r *linkRedirectRepo) Create(ctx context.Context, l *model.LinkRedirect) error {
	query := `
		INSERT INTO link_redirects (title, button_link, thumbnail)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at`

	if err := r.db.QueryRow(ctx, query, l.Title, l.ButtonLink, l.Thumbnail).Scan(&l.ID, &l.CreatedAt); err != nil {
		return fmt.Errorf("ошибка создания редиректа: %w", err)
	}
	return nil
}

func (r *linkRedirectRepo) Update(ctx context.Context, l *model.LinkRedirect) error {
	query := `
		UPDATE link_redirects
		SET title = $2, button_link = $3, thumbnail = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, l.ID, l.Title, l.ButtonLink, l.Thumbnail)
	if err != nil {
		return fmt.Errorf("ошибка обновления редиректа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *linkRedirectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM link_redirects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления редиректа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLink(row pgx.CollectableRow) (model.LinkRedirect, error) {
	var l model.LinkRedirect
	err := row.Scan(&l.ID, &l.Title, &l.ButtonLink, &l.Thumbnail, &l.CreatedAt)
	return l, err
}
