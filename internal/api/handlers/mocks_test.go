package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/calebdaradal/Nsfwph/internal/auth"
	"github.com/calebdaradal/Nsfwph/internal/catalogue"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/sbclient"
	"github.com/calebdaradal/Nsfwph/internal/service"
	"github.com/calebdaradal/Nsfwph/internal/ui"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer(t *testing.T) *ui.Renderer {
	t.Helper()
	r, err := ui.NewRenderer("Test Garden", testLogger())
	require.NoError(t, err)
	return r
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

// --- Публичные страницы ---

type mockCatalogue struct {
	pageFn func(ctx context.Context, query string, page int) (catalogue.Page, error)
}

func (m *mockCatalogue) Page(ctx context.Context, query string, page int) (catalogue.Page, error) {
	if m.pageFn != nil {
		return m.pageFn(ctx, query, page)
	}
	return catalogue.Paginate(nil, query, page), nil
}

type mockDownloads struct {
	lookupFn func(ctx context.Context, key string) (*model.FileRecord, error)
	loadFn   func(ctx context.Context, key string) (*service.DownloadPage, error)
	targetFn func(ctx context.Context, key string) (string, error)
}

func (m *mockDownloads) Lookup(ctx context.Context, key string) (*model.FileRecord, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, key)
	}
	return nil, service.ErrNotFound
}

func (m *mockDownloads) Load(ctx context.Context, key string) (*service.DownloadPage, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, key)
	}
	return nil, service.ErrNotFound
}

func (m *mockDownloads) DownloadTarget(ctx context.Context, key string) (string, error) {
	if m.targetFn != nil {
		return m.targetFn(ctx, key)
	}
	return "", service.ErrNotFound
}

type mockLinkLister struct {
	links []model.LinkRedirect
	err   error
}

func (m *mockLinkLister) List(_ context.Context) ([]model.LinkRedirect, error) {
	return m.links, m.err
}

type mockTheme struct {
	settings model.SiteSettings
	err      error
}

func (m *mockTheme) Get(_ context.Context) (model.SiteSettings, error) {
	return m.settings, m.err
}

// --- Вход ---

type mockAuthenticator struct {
	signInFn     func(ctx context.Context, email, password string) (*sbclient.Session, error)
	signOutErr   error
	signedOut    []string
	signInCalled bool
}

func (m *mockAuthenticator) SignIn(ctx context.Context, email, password string) (*sbclient.Session, error) {
	m.signInCalled = true
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return nil, sbclient.ErrInvalidCredentials
}

func (m *mockAuthenticator) SignOut(_ context.Context, accessToken string) error {
	m.signedOut = append(m.signedOut, accessToken)
	return m.signOutErr
}

type mockVerifier struct {
	err error
}

func (m *mockVerifier) Verify(token string) (*auth.Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &auth.Claims{UserID: "user-1", Email: "admin@example.com"}, nil
}

// --- Дашборд ---

type mockFiles struct {
	files    []model.FileRecord
	getFn    func(ctx context.Context, id string) (*model.FileRecord, error)
	writeErr error

	created  []service.FileInput
	updated  map[string]service.FileInput
	uploaded []string
	deleted  []string
}

func (m *mockFiles) List(_ context.Context) ([]model.FileRecord, error) {
	return m.files, nil
}

func (m *mockFiles) Get(ctx context.Context, id string) (*model.FileRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (m *mockFiles) Create(_ context.Context, in service.FileInput) (*model.FileRecord, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.record(in)
	m.created = append(m.created, in)
	return &model.FileRecord{ID: "new-id", Title: in.Title}, nil
}

func (m *mockFiles) Update(_ context.Context, id string, in service.FileInput) (*model.FileRecord, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.record(in)
	if m.updated == nil {
		m.updated = map[string]service.FileInput{}
	}
	m.updated[id] = in
	return &model.FileRecord{ID: id, Title: in.Title}, nil
}

func (m *mockFiles) Delete(_ context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// record читает загрузку до закрытия тела формы обработчиком.
func (m *mockFiles) record(in service.FileInput) {
	if in.Thumbnail == nil {
		return
	}
	data, _ := io.ReadAll(in.Thumbnail.Body)
	m.uploaded = append(m.uploaded, in.Thumbnail.Filename+"|"+in.Thumbnail.ContentType+"|"+string(data))
}

type mockLinks struct {
	links    []model.LinkRedirect
	getFn    func(ctx context.Context, id string) (*model.LinkRedirect, error)
	writeErr error

	created []service.LinkInput
	deleted []string
}

func (m *mockLinks) List(_ context.Context) ([]model.LinkRedirect, error) {
	return m.links, nil
}

func (m *mockLinks) Get(ctx context.Context, id string) (*model.LinkRedirect, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (m *mockLinks) Create(_ context.Context, in service.LinkInput) (*model.LinkRedirect, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.created = append(m.created, in)
	return &model.LinkRedirect{ID: "new-link", Title: in.Title}, nil
}

func (m *mockLinks) Update(_ context.Context, id string, in service.LinkInput) (*model.LinkRedirect, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	return &model.LinkRedirect{ID: id, Title: in.Title}, nil
}

func (m *mockLinks) Delete(_ context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockSettings struct {
	current model.SiteSettings
	saveErr error
	saved   []model.SiteSettings
}

func (m *mockSettings) Get(_ context.Context) (model.SiteSettings, error) {
	return m.current.WithDefaults(), nil
}

func (m *mockSettings) Save(_ context.Context, in model.SiteSettings) (model.SiteSettings, error) {
	if m.saveErr != nil {
		return in, m.saveErr
	}
	m.saved = append(m.saved, in)
	m.current = in
	return in, nil
}

func (m *mockSettings) Reset() model.SiteSettings {
	return model.DefaultSettings()
}
