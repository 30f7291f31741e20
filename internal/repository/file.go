package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
)

// fileColumns — столбцы таблицы files для SELECT-запросов.
const fileColumns = `id::text, COALESCE(slug, ''), title, thumbnail, subtitle, download_link, created_at`

// FileRepository — доступ к записям каталога.
type FileRepository interface {
	// List возвращает все записи, новые первыми.
	List(ctx context.Context) ([]model.FileRecord, error)
	// GetBySlug возвращает самую новую запись с указанным slug.
	GetBySlug(ctx context.Context, slug string) (*model.FileRecord, error)
	// GetByID возвращает запись по UUID.
	GetByID(ctx context.Context, id string) (*model.FileRecord, error)
	// Create вставляет запись; ID и CreatedAt заполняются базой.
	Create(ctx context.Context, f *model.FileRecord) error
	// Update перезаписывает изменяемые поля записи.
	Update(ctx context.Context, f *model.FileRecord) error
	// Delete удаляет запись.
	Delete(ctx context.Context, id string) error
}

type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий записей каталога.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) List(ctx context.Context) ([]model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files ORDER BY created_at DESC`, fileColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}

	files, err := pgx.CollectRows(rows, scanFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования файлов: %w", err)
	}
	return files, nil
}

func (r *fileRepo) GetBySlug(ctx context.Context, slug string) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE slug = $1 ORDER BY created_at DESC LIMIT 1`, fileColumns)
	return r.getOne(ctx, query, slug)
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)
	return r.getOne(ctx, query, id)
}

func (r *fileRepo) getOne(ctx context.Context, query string, arg string) (*model.FileRecord, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	f, err := pgx.CollectOneRow(rows, scanFile)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return &f, nil
}

func (r *fileRepo) Create(ctx context.Context, f *model.FileRecord) error {
	query := `
		INSERT INTO files (slug, title, thumbnail, subtitle, download_link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at`

	err := r.db.QueryRow(ctx, query,
		f.Slug, f.Title, f.Thumbnail, f.Subtitle, f.DownloadLink,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}
	return nil
}

func (r *fileRepo) Update(ctx context.Context, f *model.FileRecord) error {
	query := `
		UPDATE files
		SET slug = $2, title = $3, thumbnail = $4, subtitle = $5, download_link = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		f.ID, f.Slug, f.Title, f.Thumbnail, f.Subtitle, f.DownloadLink,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFile(row pgx.CollectableRow) (model.FileRecord, error) {
	var f model.FileRecord
	err := row.Scan(&f.ID, &f.Slug, &f.Title, &f.Thumbnail, &f.Subtitle, &f.DownloadLink, &f.CreatedAt)
	return f, err
}
