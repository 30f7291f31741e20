// verifier.go — проверка access token, выданного auth-сервисом BaaS.
// Подпись проверяется по JWKS проекта либо HS256-секретом (legacy проекты).
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// jwksPath — JWKS endpoint auth-сервиса.
const jwksPath = "/auth/v1/.well-known/jwks.json"

// authenticatedRole — роль вошедшего пользователя. Anon-ключ подписан тем же
// секретом, но имеет роль anon и не должен открывать дашборд.
const authenticatedRole = "authenticated"

// ErrInvalidToken — подпись, срок действия или роль токена не прошли проверку.
var ErrInvalidToken = errors.New("невалидный access token")

// Claims — проверенные claims access token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// tokenClaims — raw claims access token BaaS.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Verifier проверяет access token.
type Verifier struct {
	keyfunc jwt.Keyfunc
	methods []string
	leeway  time.Duration
	logger  *slog.Logger
}

// NewVerifier создаёт проверку токенов.
// Если secret задан — HS256, иначе JWKS с <backendURL>/auth/v1/.well-known/jwks.json
// с фоновым обновлением раз в refreshInterval.
func NewVerifier(
	backendURL string,
	secret string,
	httpClient *http.Client,
	refreshInterval time.Duration,
	logger *slog.Logger,
) (*Verifier, error) {
	logger = logger.With(slog.String("component", "token_verifier"))

	if secret != "" {
		return NewHMACVerifier([]byte(secret), logger), nil
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	jwksURL := backendURL + jwksPath

	// NoErrorReturnFirstHTTPReq — старт без доступного auth-сервиса.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return NewKeyfuncVerifier(k, logger), nil
}

// NewKeyfuncVerifier создаёт проверку с готовым набором ключей (ES256/RS256).
func NewKeyfuncVerifier(k keyfunc.Keyfunc, logger *slog.Logger) *Verifier {
	return &Verifier{
		keyfunc: k.Keyfunc,
		methods: []string{"ES256", "RS256"},
		leeway:  30 * time.Second,
		logger:  logger,
	}
}

// NewHMACVerifier создаёт проверку HS256-секретом.
func NewHMACVerifier(secret []byte, logger *slog.Logger) *Verifier {
	return &Verifier{
		keyfunc: func(*jwt.Token) (any, error) { return secret, nil },
		methods: []string{"HS256"},
		leeway:  30 * time.Second,
		logger:  logger,
	}
}

// Verify проверяет подпись, срок действия и роль токена.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	raw := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, raw, v.keyfunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !token.Valid {
		v.logger.Debug("Access token не прошёл проверку", slog.Any("error", err))
		return nil, ErrInvalidToken
	}

	if raw.Role != authenticatedRole {
		return nil, fmt.Errorf("%w: роль %q", ErrInvalidToken, raw.Role)
	}
	if raw.Subject == "" {
		return nil, fmt.Errorf("%w: отсутствует sub", ErrInvalidToken)
	}

	claims := &Claims{UserID: raw.Subject, Email: raw.Email}
	if raw.ExpiresAt != nil {
		claims.ExpiresAt = raw.ExpiresAt.Time
	}
	return claims, nil
}
