// Точка входа каталога — HTTP-сервер публичных страниц и дашборда.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL BaaS,
// создаёт клиенты object storage и auth, сервисный слой и обработчики,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/calebdaradal/Nsfwph/internal/api/handlers"
	"github.com/calebdaradal/Nsfwph/internal/api/middleware"
	"github.com/calebdaradal/Nsfwph/internal/auth"
	"github.com/calebdaradal/Nsfwph/internal/config"
	"github.com/calebdaradal/Nsfwph/internal/database"
	"github.com/calebdaradal/Nsfwph/internal/domain/model"
	"github.com/calebdaradal/Nsfwph/internal/objectstore"
	"github.com/calebdaradal/Nsfwph/internal/repository"
	"github.com/calebdaradal/Nsfwph/internal/sbclient"
	"github.com/calebdaradal/Nsfwph/internal/server"
	"github.com/calebdaradal/Nsfwph/internal/service"
	"github.com/calebdaradal/Nsfwph/internal/ui"
)

// jwksRefreshInterval — период фонового обновления JWKS.
const jwksRefreshInterval = 15 * time.Minute

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Каталог запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositories
	fileRepo := repository.NewFileRepository(pool)
	linkRepo := repository.NewLinkRedirectRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	// 6. Кэши и сервисы чтения
	catalogueSvc := service.NewCatalogueService(
		fileRepo,
		service.NewCacheService[[]model.FileRecord]("catalogue", 1, cfg.CacheTTL),
		logger,
	)
	settingsSvc := service.NewSettingsService(
		settingsRepo,
		service.NewCacheService[model.SiteSettings]("settings", 1, cfg.CacheTTL),
		logger,
	)
	downloadSvc := service.NewDownloadPageService(
		fileRepo, linkRepo, settingsSvc,
		service.NewCacheService[model.FileRecord]("download", cfg.CacheSize, cfg.CacheTTL),
		logger,
	)

	// 7. Клиенты BaaS: object storage (миниатюры) и auth
	store := objectstore.New(cfg.SupabaseURL, cfg.StorageBucket, cfg.SupabaseServiceKey, cfg.BackendTimeout, logger)
	sbClient := sbclient.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.BackendTimeout, logger)
	logger.Info("Клиенты BaaS созданы",
		slog.String("url", cfg.SupabaseURL),
		slog.String("bucket", store.Bucket()),
	)

	// 8. Сервисы записи (дашборд). Каждая запись сбрасывает кэши каталога и download-страниц.
	filesSvc := service.NewFileService(fileRepo, store, logger, catalogueSvc, downloadSvc)
	linksSvc := service.NewLinkService(linkRepo, store, logger)

	// 9. Проверка access token и cookie-сессии
	verifier, err := auth.NewVerifier(
		cfg.SupabaseURL,
		cfg.SupabaseJWTSecret,
		&http.Client{Timeout: cfg.BackendTimeout},
		jwksRefreshInterval,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания проверки токенов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SupabaseJWTSecret == "" {
		logger.Info("Проверка токенов через JWKS", slog.String("url", cfg.SupabaseURL))
	}

	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.CookieSecure)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("CAT_SESSION_SECRET не задан, сессии дашборда не сохраняются между рестартами")
	}

	// 10. topologymetrics — мониторинг зависимостей (PostgreSQL + BaaS auth)
	var deps handlers.DependencyReporter
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "catalogue",
		Group:         cfg.DephealthGroup,
		PgConnURL:     cfg.DatabaseURL,
		BackendURL:    cfg.SupabaseURL,
		CheckInterval: cfg.DephealthCheckInterval,
	}, pgDB, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	} else {
		deps = dephealthSvc
		defer dephealthSvc.Stop()
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 11. Шаблоны и обработчики
	renderer, err := ui.NewRenderer(cfg.SiteName, logger)
	if err != nil {
		logger.Error("Ошибка загрузки шаблонов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	h := server.Handlers{
		Health:      handlers.NewHealthHandler(database.NewReadinessChecker(pool), deps),
		Pages:       handlers.NewPageHandler(catalogueSvc, downloadSvc, linksSvc, settingsSvc, renderer, logger),
		API:         handlers.NewAPIHandler(catalogueSvc, downloadSvc, logger),
		Auth:        handlers.NewAuthHandler(sbClient, sessions, verifier, settingsSvc, renderer, logger),
		Dashboard:   handlers.NewDashboardHandler(filesSvc, linksSvc, settingsSvc, renderer, logger),
		SessionAuth: middleware.NewSessionAuth(sessions, sbClient, verifier, logger),
	}

	// 12. HTTP-сервер
	srv := server.New(cfg, logger, h)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Каталог остановлен")
}
