// Пакет objectstore — клиент object storage BaaS (Storage REST API) для миниатюр.
// Загрузка с генерацией имени объекта, удаление, публичные URL
// и обратное извлечение пути объекта из публичного URL.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize — максимальный размер загружаемой миниатюры (5 MiB).
const MaxImageSize = 5 << 20

// Папки bucket'а.
const (
	FolderFiles = "files"
	FolderLinks = "links"
)

// Ошибки валидации загрузки.
var (
	// ErrNotImage — Content-Type не image/*.
	ErrNotImage = errors.New("файл должен быть изображением")
	// ErrTooLarge — размер превышает MaxImageSize.
	ErrTooLarge = errors.New("изображение больше 5 МБ")
)

// publicPathRe — путь объекта в публичном URL: /storage/v1/object/public/<bucket>/<path>.
var publicPathRe = regexp.MustCompile(`/storage/v1/object/public/[^/]+/(.+)$`)

// Store — клиент Storage REST API одного bucket'а.
type Store struct {
	httpClient *http.Client
	baseURL    string
	bucket     string
	serviceKey string
	logger     *slog.Logger

	// now и newID подменяются в тестах
	now   func() time.Time
	newID func() string
}

// New создаёт клиент object storage.
// baseURL — URL проекта BaaS, serviceKey — ключ с правом записи в bucket.
func New(baseURL, bucket, serviceKey string, timeout time.Duration, logger *slog.Logger) *Store {
	return &Store{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/") + "/storage/v1",
		bucket:     bucket,
		serviceKey: serviceKey,
		logger:     logger.With(slog.String("component", "object_store")),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Bucket возвращает имя bucket'а.
func (s *Store) Bucket() string { return s.bucket }

// Upload загружает изображение в folder и возвращает его публичный URL.
// Имя объекта: <unix-millis>-<uuid>.<ext>.
func (s *Store) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("чтение загружаемого файла: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	objectPath := s.objectName(filename, contentType)
	if folder != "" {
		objectPath = folder + "/" + objectPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(objectPath), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("создание запроса upload: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	resp, err := s.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload %s: статус %d: %s", objectPath, resp.StatusCode, string(body))
	}

	s.logger.Info("Миниатюра загружена",
		slog.String("path", objectPath),
		slog.Int("size", len(data)),
	)
	return s.PublicURL(objectPath), nil
}

// Delete удаляет объект. Отсутствующий объект не считается ошибкой.
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(objectPath), http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса delete: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("delete %s: статус %d: %s", objectPath, resp.StatusCode, string(body))
	}
	return nil
}

// PublicURL возвращает публичный URL объекта.
func (s *Store) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, escapePath(objectPath))
}

// ExtractPath извлекает путь объекта из публичного URL.
// false — ссылка не указывает на object storage (внешняя миниатюра).
func ExtractPath(publicURL string) (string, bool) {
	m := publicPathRe.FindStringSubmatch(publicURL)
	if m == nil {
		return "", false
	}
	p, err := url.PathUnescape(m[1])
	if err != nil {
		return m[1], true
	}
	return p, true
}

func (s *Store) objectURL(objectPath string) string {
	return fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, escapePath(objectPath))
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
}

// objectName генерирует уникальное имя объекта с расширением исходного файла.
func (s *Store) objectName(filename, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" || !isAlnum(ext) {
		// image/svg+xml → svg
		ext = strings.TrimPrefix(strings.ToLower(contentType), "image/")
		ext, _, _ = strings.Cut(ext, "+")
		ext, _, _ = strings.Cut(ext, ";")
	}
	if ext == "" || !isAlnum(ext) {
		ext = "img"
	}
	return strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + s.newID() + "." + ext
}

// escapePath экранирует сегменты пути объекта, сохраняя разделители.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
