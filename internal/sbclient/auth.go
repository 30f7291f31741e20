// auth.go — вход в дашборд через auth-интерфейс BaaS (GoTrue).
package sbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ErrInvalidCredentials — неверный email/пароль или недействительный refresh token.
var ErrInvalidCredentials = errors.New("неверные учётные данные")

// Session — результат успешного входа или обновления сессии.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Email        string
	UserID       string
}

// tokenResponse — ответ /auth/v1/token.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`  //nolint:gosec // G117: JSON-маппинг ответа
	RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: JSON-маппинг ответа
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn выполняет вход по email и паролю.
// POST /auth/v1/token?grant_type=password
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.token(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh обновляет сессию по refresh token.
// POST /auth/v1/token?grant_type=refresh_token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return c.token(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

// SignOut отзывает сессию пользователя.
// POST /auth/v1/logout. Ошибка не критична для выхода из дашборда.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса logout: %w", err)
	}
	c.setKeyHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return fmt.Errorf("запрос logout: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) token(ctx context.Context, grant string, body map[string]string) (*Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("сериализация запроса token: %w", err)
	}

	reqURL := c.baseURL + "/auth/v1/token?grant_type=" + grant
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("создание запроса token: %w", err)
	}
	c.setKeyHeaders(req, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос token (%s): %w", grant, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("BaaS отклонил учётные данные",
			slog.String("grant", grant),
			slog.Int("status", resp.StatusCode),
		)
		return nil, ErrInvalidCredentials
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("декодирование ответа token: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("пустой access_token в ответе BaaS")
	}

	expiresAt := time.Unix(tr.ExpiresAt, 0)
	if tr.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	return &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt,
		Email:        tr.User.Email,
		UserID:       tr.User.ID,
	}, nil
}
