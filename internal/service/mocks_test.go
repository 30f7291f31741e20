package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/repository"
)

// testLogger — логгер, отбрасывающий вывод.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock FileRepository ---

type mockFileRepo struct {
	listFn      func(ctx context.Context) ([]model.FileRecord, error)
	getBySlugFn func(ctx context.Context, slug string) (*model.FileRecord, error)
	getByIDFn   func(ctx context.Context, id string) (*model.FileRecord, error)
	createFn    func(ctx context.Context, f *model.FileRecord) error
	updateFn    func(ctx context.Context, f *model.FileRecord) error
	deleteFn    func(ctx context.Context, id string) error

	listCalls int
}

func (m *mockFileRepo) List(ctx context.Context) ([]model.FileRecord, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockFileRepo) GetBySlug(ctx context.Context, slug string) (*model.FileRecord, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) GetByID(ctx context.Context, id string) (*model.FileRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) Create(ctx context.Context, f *model.FileRecord) error {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	f.ID = "11111111-1111-1111-1111-111111111111"
	f.CreatedAt = time.Now()
	return nil
}

func (m *mockFileRepo) Update(ctx context.Context, f *model.FileRecord) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, f)
	}
	return nil
}

func (m *mockFileRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock LinkRedirectRepository ---

type mockLinkRepo struct {
	listFn    func(ctx context.Context) ([]model.LinkRedirect, error)
	getByIDFn func(ctx context.Context, id string) (*model.LinkRedirect, error)
	createFn  func(ctx context.Context, l *model.LinkRedirect) error
	updateFn  func(ctx context.Context, l *model.LinkRedirect) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockLinkRepo) List(ctx context.Context) ([]model.LinkRedirect, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockLinkRepo) GetByID(ctx context.Context, id string) (*model.LinkRedirect, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockLinkRepo) Create(ctx context.Context, l *model.LinkRedirect) error {
	if m.createFn != nil {
		return m.createFn(ctx, l)
	}
	l.ID = "22222222-2222-2222-2222-222222222222"
	return nil
}

func (m *mockLinkRepo) Update(ctx context.Context, l *model.LinkRedirect) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, l)
	}
	return nil
}

func (m *mockLinkRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock SettingsRepository ---

type mockSettingsRepo struct {
	getFn  func(ctx context.Context) (*model.SiteSettings, error)
	saveFn func(ctx context.Context, s *model.SiteSettings) error
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*model.SiteSettings, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSettingsRepo) Save(ctx context.Context, s *model.SiteSettings) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, s)
	}
	return nil
}

// --- Mock ThumbnailStore ---

type mockStore struct {
	uploadFn func(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	deleteFn func(ctx context.Context, objectPath string) error

	uploadedFolders []string
	deleted         []string
}

func (m *mockStore) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	m.uploadedFolders = append(m.uploadedFolders, folder)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, folder, filename, contentType, r)
	}
	return "https://project.supabase.co/storage/v1/object/public/thumbnails/" + folder + "/new.png", nil
}

func (m *mockStore) Delete(ctx context.Context, objectPath string) error {
	m.deleted = append(m.deleted, objectPath)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, objectPath)
	}
	return nil
}

// --- Mock Invalidator ---

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }
