// Пакет config — загрузка и валидация конфигурации каталога
// из переменных окружения (и необязательного .env файла).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// DefaultSiteName — название сайта в <title> и social-preview тегах.
const DefaultSiteName = "Ultra Garden of PH"

// Config содержит все параметры конфигурации HTTP-сервера каталога.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Название сайта (title, og-теги)
	SiteName string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Таймаут graceful shutdown
	ShutdownTimeout time.Duration

	// --- Backend-as-a-service ---

	// DSN PostgreSQL базы BaaS
	DatabaseURL string
	// Базовый URL проекта (https://<project>.supabase.co)
	SupabaseURL string
	// Публичный (anon) ключ — для REST и auth
	SupabaseAnonKey string
	// Service-role ключ для записи в object storage (по умолчанию — anon ключ)
	SupabaseServiceKey string
	// HS256-секрет для проверки access token. Пусто — проверка через JWKS.
	SupabaseJWTSecret string
	// Bucket для миниатюр
	StorageBucket string
	// Таймаут HTTP-запросов к BaaS
	BackendTimeout time.Duration

	// --- UI ---

	// Ключ шифрования cookie-сессий дашборда
	SessionSecret string
	// Secure flag на cookie сессии (за TLS-терминатором)
	CookieSecure bool
	// Лимит попыток входа в минуту с одного IP
	LoginRateLimit int

	// --- Кэш ---

	CacheSize int
	CacheTTL  time.Duration

	// --- topologymetrics ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию сервера из переменных окружения.
// Перед чтением подгружает .env из рабочего каталога (если есть).
func Load() (*Config, error) {
	if err := loadDotEnv(".env", false); err != nil {
		return nil, err
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	cfg.Port, err = getEnvInt("CAT_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("CAT_PORT: %w", err)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CAT_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CAT_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("CAT_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CAT_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	cfg.SiteName = getEnvDefault("CAT_SITE_NAME", DefaultSiteName)

	if cfg.HTTPReadTimeout, err = getEnvDuration("CAT_HTTP_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("CAT_HTTP_READ_TIMEOUT: %w", err)
	}
	if cfg.HTTPWriteTimeout, err = getEnvDuration("CAT_HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return nil, fmt.Errorf("CAT_HTTP_WRITE_TIMEOUT: %w", err)
	}
	if cfg.HTTPIdleTimeout, err = getEnvDuration("CAT_HTTP_IDLE_TIMEOUT", 120*time.Second); err != nil {
		return nil, fmt.Errorf("CAT_HTTP_IDLE_TIMEOUT: %w", err)
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("CAT_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, fmt.Errorf("CAT_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Backend-as-a-service ---

	if cfg.DatabaseURL, err = getEnvRequired("CAT_DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.SupabaseURL, err = getEnvRequired("CAT_SUPABASE_URL"); err != nil {
		return nil, err
	}
	cfg.SupabaseURL = strings.TrimRight(cfg.SupabaseURL, "/")
	if cfg.SupabaseAnonKey, err = getEnvRequired("CAT_SUPABASE_ANON_KEY"); err != nil {
		return nil, err
	}
	cfg.SupabaseServiceKey = getEnvDefault("CAT_SUPABASE_SERVICE_KEY", cfg.SupabaseAnonKey)
	cfg.SupabaseJWTSecret = os.Getenv("CAT_SUPABASE_JWT_SECRET")
	cfg.StorageBucket = getEnvDefault("CAT_STORAGE_BUCKET", "thumbnails")

	if cfg.BackendTimeout, err = getEnvDuration("CAT_BACKEND_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("CAT_BACKEND_TIMEOUT: %w", err)
	}

	// --- UI ---

	cfg.SessionSecret = os.Getenv("CAT_SESSION_SECRET")
	if cfg.CookieSecure, err = getEnvBool("CAT_COOKIE_SECURE", false); err != nil {
		return nil, fmt.Errorf("CAT_COOKIE_SECURE: %w", err)
	}
	if cfg.LoginRateLimit, err = getEnvInt("CAT_LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, fmt.Errorf("CAT_LOGIN_RATE_LIMIT: %w", err)
	}
	if cfg.LoginRateLimit < 1 {
		return nil, fmt.Errorf("CAT_LOGIN_RATE_LIMIT: значение должно быть >= 1")
	}

	// --- Кэш ---

	if cfg.CacheSize, err = getEnvInt("CAT_CACHE_SIZE", 1000); err != nil {
		return nil, fmt.Errorf("CAT_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("CAT_CACHE_SIZE: значение должно быть >= 1")
	}
	if cfg.CacheTTL, err = getEnvDuration("CAT_CACHE_TTL", time.Minute); err != nil {
		return nil, fmt.Errorf("CAT_CACHE_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("CAT_DEPHEALTH_GROUP", "catalogue")
	if cfg.DephealthCheckInterval, err = getEnvDuration("CAT_DEPHEALTH_CHECK_INTERVAL", 15*time.Second); err != nil {
		return nil, fmt.Errorf("CAT_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// loadDotEnv подгружает переменные из .env файла. Отсутствие файла — не ошибка.
// При override значения из файла перезаписывают уже заданные переменные окружения.
func loadDotEnv(path string, override bool) error {
	load := godotenv.Load
	if override {
		load = godotenv.Overload
	}
	if err := load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("чтение %s: %w", path, err)
	}
	return nil
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
// Допустимые значения: true/false, 1/0, yes/no.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
