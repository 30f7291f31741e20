// Пакет sbclient — HTTP-клиент REST (PostgREST) и auth (GoTrue) интерфейсов BaaS.
// Используется генератором social-preview страниц (чтение каталога)
// и страницей входа дашборда (password grant, refresh, logout).
package sbclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calebdaradal/Nsfwph/internal/domain/model"
)

// catalogueSelect — столбцы, запрашиваемые для social-preview страниц.
const catalogueSelect = "id,slug,thumbnail,title,subtitle"

// maxErrorBody — сколько байт тела ответа сохраняется в StatusError.
const maxErrorBody = 4096

// ErrNotList — REST вернул JSON, который не является массивом.
var ErrNotList = errors.New("ответ REST не является JSON-массивом")

// StatusError — BaaS ответил статусом вне 2xx.
type StatusError struct {
	// Status — HTTP-статус ответа
	Status int
	// Body — начало тела ответа (для логов)
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("BaaS вернул статус %d: %s", e.Status, e.Body)
}

// HTTPStatus возвращает HTTP-статус ответа.
func (e *StatusError) HTTPStatus() int { return e.Status }

// Client — HTTP-клиент BaaS.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// New создаёт клиент BaaS.
// baseURL — URL проекта (https://<project>.supabase.co), apiKey — anon ключ.
// timeout — таймаут HTTP-запросов; 0 — без явного таймаута.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With(slog.String("component", "sb_client")),
	}
}

// BaseURL возвращает базовый URL проекта.
func (c *Client) BaseURL() string { return c.baseURL }

// wireFile — строка таблицы files в ответе PostgREST.
// id может прийти строкой (uuid) или числом (bigint).
type wireFile struct {
	ID        json.RawMessage `json:"id"`
	Slug      *string         `json:"slug"`
	Thumbnail *string         `json:"thumbnail"`
	Title     *string         `json:"title"`
	Subtitle  *string         `json:"subtitle"`
}

// ListCatalogue читает все записи каталога через REST.
// GET /rest/v1/files?select=id,slug,thumbnail,title,subtitle
//
// Ошибки: транспортная ошибка (как есть), *StatusError (не 2xx), ErrNotList.
// Элементы массива, которые не удалось разобрать, пропускаются с предупреждением.
func (c *Client) ListCatalogue(ctx context.Context) ([]model.FileRecord, error) {
	reqURL := c.baseURL + "/rest/v1/files?select=" + catalogueSelect

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса ListCatalogue: %w", err)
	}
	c.setKeyHeaders(req, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос ListCatalogue к %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotList
		}
		return nil, fmt.Errorf("декодирование ответа ListCatalogue: %w", err)
	}

	records := make([]model.FileRecord, 0, len(raw))
	for i, item := range raw {
		var w wireFile
		if err := json.Unmarshal(item, &w); err != nil {
			c.logger.Warn("Пропуск элемента каталога: не удалось разобрать",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, model.FileRecord{
			ID:        rawID(w.ID),
			Slug:      deref(w.Slug),
			Thumbnail: deref(w.Thumbnail),
			Title:     deref(w.Title),
			Subtitle:  deref(w.Subtitle),
		})
	}

	c.logger.Debug("Каталог получен", slog.Int("count", len(records)))
	return records, nil
}

// setKeyHeaders выставляет заголовки apikey и Authorization.
// bearer — anon ключ или access token пользователя.
func (c *Client) setKeyHeaders(req *http.Request, bearer string) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
}

// checkStatus возвращает *StatusError для ответа вне 2xx.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// rawID приводит JSON-значение id к строке (строка, число или null).
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
