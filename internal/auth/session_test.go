package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := &SessionData{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		UserID:       "user-1",
		Email:        "owner@example.com",
	}

	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if strings.Contains(encrypted, "access-token") {
		t.Error("токен не должен быть виден в зашифрованной строке")
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}
	if *decrypted != *original {
		t.Errorf("сессия после round trip: want %+v, got %+v", original, decrypted)
	}
}

func TestSessionDecryptWithOtherKey(t *testing.T) {
	sm1, _ := NewSessionManager("first-secret", false)
	sm2, _ := NewSessionManager("second-secret", false)

	encrypted, err := sm1.Encrypt(&SessionData{AccessToken: "x"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if _, err := sm2.Decrypt(encrypted); err == nil {
		t.Error("сессия не должна расшифровываться чужим ключом")
	}
}

func TestSessionDecryptInvalid(t *testing.T) {
	sm, _ := NewSessionManager("secret", false)

	for _, input := range []string{"", "not-base64!!!", "YQ=="} {
		if _, err := sm.Decrypt(input); err == nil {
			t.Errorf("Decrypt(%q) должен вернуть ошибку", input)
		}
	}
}

func TestSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("secret", true)

	rec := httptest.NewRecorder()
	data := &SessionData{AccessToken: "a", RefreshToken: "r", Email: "owner@example.com"}
	if err := sm.SetSessionCookie(rec, data); err != nil {
		t.Fatalf("SetSessionCookie: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("ожидался 1 cookie, получено %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Errorf("неверные атрибуты cookie: %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(c)
	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("GetSessionFromRequest: %v", err)
	}
	if got == nil || got.Email != "owner@example.com" {
		t.Errorf("сессия из cookie: %+v", got)
	}
}

func TestSessionNoCookie(t *testing.T) {
	sm, _ := NewSessionManager("secret", false)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	got, err := sm.GetSessionFromRequest(req)
	if err != nil || got != nil {
		t.Errorf("без cookie ожидается nil, nil; получено %+v, %v", got, err)
	}
}

func TestSessionClearCookie(t *testing.T) {
	sm, _ := NewSessionManager("secret", false)

	rec := httptest.NewRecorder()
	sm.ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("ожидался удаляющий cookie, получено %+v", cookies)
	}
}

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Duration
		want    bool
	}{
		{"истёк", -time.Minute, true},
		{"в пределах буфера", 10 * time.Second, true},
		{"действителен", 10 * time.Minute, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SessionData{ExpiresAt: time.Now().Add(tt.expires).Unix()}
			if got := s.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, ожидается %v", got, tt.want)
			}
		})
	}
}
