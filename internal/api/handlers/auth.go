// auth.go — вход в дашборд и выход.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calebdaradal/Nsfwph/internal/api/middleware"
	"github.com/calebdaradal/Nsfwph/internal/auth"
	"github.com/calebdaradal/Nsfwph/internal/sbclient"
	"github.com/calebdaradal/Nsfwph/internal/ui"
)

// DashboardPath — страница после успешного входа.
const DashboardPath = "/dashboard"

// Authenticator — вход и выход через auth-интерфейс BaaS.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*sbclient.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AuthHandler — обработчик /login и /logout.
type AuthHandler struct {
	client   Authenticator
	sessions *auth.SessionManager
	verifier middleware.TokenVerifier
	theme    ThemeReader
	renderer *ui.Renderer
	logger   *slog.Logger
}

// NewAuthHandler создаёт обработчик входа.
func NewAuthHandler(
	client Authenticator,
	sessions *auth.SessionManager,
	verifier middleware.TokenVerifier,
	theme ThemeReader,
	renderer *ui.Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		client:   client,
		sessions: sessions,
		verifier: verifier,
		theme:    theme,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// LoginForm — GET /login. При действующей сессии — сразу в дашборд.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessions.GetSessionFromRequest(r); err == nil && session != nil && !session.IsExpired() {
		http.Redirect(w, r, DashboardPath, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, ui.LoginData{})
}

// Login — POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, ui.LoginData{Error: "Invalid form"})
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.render(w, r, http.StatusBadRequest, ui.LoginData{Email: email, Error: "Email and password are required"})
		return
	}

	session, err := h.client.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, sbclient.ErrInvalidCredentials) {
			h.logger.Warn("Неудачная попытка входа", slog.String("email", email))
			h.render(w, r, http.StatusUnauthorized, ui.LoginData{Email: email, Error: "Invalid email or password"})
			return
		}
		h.logger.Error("Ошибка входа через BaaS",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		h.render(w, r, http.StatusBadGateway, ui.LoginData{Email: email, Error: "Sign-in service is unavailable, try again later"})
		return
	}

	if _, err := h.verifier.Verify(session.AccessToken); err != nil {
		h.logger.Warn("Access token отклонён после входа",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		h.render(w, r, http.StatusUnauthorized, ui.LoginData{Email: email, Error: "Access denied"})
		return
	}

	if err := h.sessions.SetSessionCookie(w, middleware.SessionFromBackend(session)); err != nil {
		h.logger.Error("Ошибка установки cookie сессии", slog.String("error", err.Error()))
		h.render(w, r, http.StatusInternalServerError, ui.LoginData{Email: email, Error: "Internal error"})
		return
	}

	h.logger.Info("Вход в дашборд", slog.String("email", session.Email))
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// Logout — POST /logout. Отзыв сессии в BaaS best-effort, cookie очищается всегда.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessions.GetSessionFromRequest(r); err == nil && session != nil {
		if err := h.client.SignOut(r.Context(), session.AccessToken); err != nil {
			h.logger.Warn("Ошибка отзыва сессии в BaaS",
				slog.String("email", session.Email),
				slog.String("error", err.Error()),
			)
		}
	}

	h.sessions.ClearSessionCookie(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// RateLimited — ответ httprate при превышении лимита попыток входа.
func (h *AuthHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("Превышен лимит попыток входа", slog.String("remote_addr", r.RemoteAddr))
	h.render(w, r, http.StatusTooManyRequests, ui.LoginData{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Error: "Too many sign-in attempts, try again in a minute",
	})
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, data ui.LoginData) {
	theme, err := h.theme.Get(r.Context())
	if err != nil {
		h.logger.Warn("Настройки темы недоступны", slog.String("error", err.Error()))
	}
	h.renderer.Render(w, status, ui.PageLogin, &ui.Page{
		Title: "Sign in",
		Theme: theme,
		Data:  data,
	})
}
