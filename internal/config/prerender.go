// prerender.go — конфигурация генератора social-preview страниц (prerender-og).
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/calebdaradal/Nsfwph/internal/prerender"
)

// DefaultSiteURL — базовый URL сайта, если VITE_SITE_URL не задан.
const DefaultSiteURL = "https://ultragarden.netlify.app"

// LoadPrerender собирает prerender.Config из окружения.
// Переменные: VITE_SUPABASE_URL, VITE_SUPABASE_ANON_KEY, VITE_SITE_URL, PRERENDER_DIST_DIR.
// Значения из .env перезаписывают окружение. Нечитаемый .env возвращается ошибкой
// вместе с конфигурацией, собранной из окружения процесса.
// Отсутствие URL или ключа не ошибка: генератор сам пропустит шаг (ConfigMissing).
func LoadPrerender(envFile string) (prerender.Config, error) {
	envErr := loadDotEnv(envFile, true)

	siteURL := strings.TrimSuffix(os.Getenv("VITE_SITE_URL"), "/")
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}

	return prerender.Config{
		BackendURL: strings.TrimSuffix(os.Getenv("VITE_SUPABASE_URL"), "/"),
		AccessKey:  os.Getenv("VITE_SUPABASE_ANON_KEY"),
		SiteURL:    siteURL,
		DistDir:    getEnvDefault("PRERENDER_DIST_DIR", "dist"),
	}, envErr
}

// PrerenderLogger — текстовый логгер для build-шага (уровень из PRERENDER_LOG_LEVEL).
func PrerenderLogger() *slog.Logger {
	level, err := parseLogLevel(getEnvDefault("PRERENDER_LOG_LEVEL", "info"))
	if err != nil {
		level = slog.LevelInfo
	}
	return newLogger(os.Stderr, level, "text").With(slog.String("component", "prerender-og"))
}
