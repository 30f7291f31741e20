// session.go — доступ к дашборду по cookie-сессии с одним автоматическим refresh.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/calebdaradal/Nsfwph/internal/auth"
	"github.com/calebdaradal/Nsfwph/internal/sbclient"
)

// LoginPath — страница входа, на которую перенаправляются неаутентифицированные запросы.
const LoginPath = "/login"

type contextKey string

// ContextKeySession — сессия дашборда в контексте запроса.
const ContextKeySession contextKey = "dashboard_session"

// SessionRefresher обновляет сессию по refresh token.
type SessionRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*sbclient.Session, error)
}

// TokenVerifier проверяет access token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionAuth — middleware дашборда.
type SessionAuth struct {
	sessions  *auth.SessionManager
	refresher SessionRefresher
	verifier  TokenVerifier
	logger    *slog.Logger
}

// NewSessionAuth создаёт middleware доступа к дашборду.
func NewSessionAuth(
	sessions *auth.SessionManager,
	refresher SessionRefresher,
	verifier TokenVerifier,
	logger *slog.Logger,
) *SessionAuth {
	return &SessionAuth{
		sessions:  sessions,
		refresher: refresher,
		verifier:  verifier,
		logger:    logger.With(slog.String("component", "session_auth")),
	}
}

// Middleware пропускает запрос с действующей сессией. Истёкший access token
// обновляется один раз; при неудаче cookie очищается и выполняется redirect на /login.
func (sa *SessionAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sa.sessions.GetSessionFromRequest(r)
			if err != nil {
				sa.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				sa.reject(w, r)
				return
			}
			if session == nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			if session.IsExpired() {
				refreshed, err := sa.refresh(r.Context(), session)
				if err != nil {
					sa.logger.Info("Не удалось обновить сессию, redirect на login",
						slog.String("email", session.Email),
						slog.String("error", err.Error()),
					)
					sa.reject(w, r)
					return
				}
				if err := sa.sessions.SetSessionCookie(w, refreshed); err != nil {
					sa.logger.Error("Ошибка обновления cookie сессии", slog.String("error", err.Error()))
					sa.reject(w, r)
					return
				}
				session = refreshed
			}

			if _, err := sa.verifier.Verify(session.AccessToken); err != nil {
				sa.logger.Info("Access token сессии отклонён",
					slog.String("email", session.Email),
					slog.String("error", err.Error()),
				)
				sa.reject(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (sa *SessionAuth) refresh(ctx context.Context, session *auth.SessionData) (*auth.SessionData, error) {
	s, err := sa.refresher.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return nil, err
	}
	sa.logger.Debug("Сессия обновлена через refresh token", slog.String("email", s.Email))
	return SessionFromBackend(s), nil
}

func (sa *SessionAuth) reject(w http.ResponseWriter, r *http.Request) {
	sa.sessions.ClearSessionCookie(w)
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// SessionFromBackend преобразует сессию BaaS в данные cookie.
func SessionFromBackend(s *sbclient.Session) *auth.SessionData {
	return &auth.SessionData{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt.Unix(),
		UserID:       s.UserID,
		Email:        s.Email,
	}
}

// SessionFromContext возвращает сессию, помещённую SessionAuth, или nil.
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}
