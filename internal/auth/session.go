// Пакет auth — сессии дашборда и проверка access token BaaS.
// Сессия хранится в cookie, зашифрованном AES-256-GCM.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SessionCookieName — имя cookie зашифрованной сессии дашборда.
const SessionCookieName = "catalogue_session"

// SessionCookieMaxAge — максимальный возраст cookie (7 дней, refresh token живёт дольше access).
const SessionCookieMaxAge = 7 * 24 * 60 * 60

// SessionData — данные сессии дашборда.
type SessionData struct {
	AccessToken  string `json:"access_token"`  //nolint:gosec // G117: содержимое зашифрованного cookie
	RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: содержимое зашифрованного cookie
	// ExpiresAt — истечение access token (Unix timestamp)
	ExpiresAt int64  `json:"expires_at"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

// IsExpired — true, если до истечения access token меньше 30 секунд.
func (s *SessionData) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt-30
}

// SessionManager шифрует SessionData в cookie и обратно.
type SessionManager struct {
	gcm    cipher.AEAD
	secure bool
}

// NewSessionManager создаёт менеджер сессий.
// key — base64 32-байтовый ключ или произвольная строка (хешируется SHA-256).
// Пустой key — случайный ключ: сессии не переживают рестарт.
func NewSessionManager(key string, secure bool) (*SessionManager, error) {
	var keyBytes []byte

	if key == "" {
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			h := sha256.Sum256([]byte(key))
			keyBytes = h[:]
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &SessionManager{gcm: gcm, secure: secure}, nil
}

// Encrypt шифрует сессию в base64url-строку (nonce || ciphertext).
func (sm *SessionManager) Encrypt(data *SessionData) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	nonce := make([]byte, sm.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	return base64.URLEncoding.EncodeToString(sm.gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

// Decrypt расшифровывает строку, созданную Encrypt.
func (sm *SessionManager) Decrypt(encrypted string) (*SessionData, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}

	nonceSize := sm.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("зашифрованные данные слишком короткие")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := sm.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка дешифрования сессии: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сессии: %w", err)
	}
	return &data, nil
}

// SetSessionCookie записывает зашифрованную сессию в ответ.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, data *SessionData) error {
	encrypted, err := sm.Encrypt(data)
	if err != nil {
		return err
	}
	http.SetCookie(w, sm.cookie(encrypted, SessionCookieMaxAge))
	return nil
}

// GetSessionFromRequest читает сессию из cookie. Нет cookie — nil, nil.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*SessionData, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}
	return sm.Decrypt(cookie.Value)
}

// ClearSessionCookie удаляет cookie сессии.
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie("", -1))
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
