// Пакет server — HTTP-сервер каталога с graceful shutdown.
// Без TLS — TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/calebdaradal/Nsfwph/internal/api/handlers"
	"github.com/calebdaradal/Nsfwph/internal/api/middleware"
	"github.com/calebdaradal/Nsfwph/internal/config"
	"github.com/calebdaradal/Nsfwph/internal/ui"
)

// Handlers — обработчики, из которых собирается router.
type Handlers struct {
	Health      *handlers.HealthHandler
	Pages       *handlers.PageHandler
	API         *handlers.APIHandler
	Auth        *handlers.AuthHandler
	Dashboard   *handlers.DashboardHandler
	SessionAuth *middleware.SessionAuth
}

// Server — HTTP-сервер каталога.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, h),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты каталога.
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.MetricsMiddleware())

	// Служебные endpoints
	r.Get("/health/live", h.Health.HealthLive)
	r.Get("/health/ready", h.Health.HealthReady)
	r.Get("/metrics", h.Health.GetMetrics)

	r.Handle("/static/*", ui.StaticHandler())

	// Публичные страницы
	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/", h.Pages.Catalogue)
		r.Get("/file/{slug}", h.Pages.Download)
		r.Get("/links", h.Pages.Links)

		r.Get("/api/v1/catalogue", h.API.Catalogue)
		r.Get("/api/v1/files/{slug}", h.API.GetFile)
	})
	r.Get("/file/{slug}/download", h.Pages.DownloadRedirect)

	// Вход
	r.Get(middleware.LoginPath, h.Auth.LoginForm)
	r.With(httprate.Limit(
		cfg.LoginRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(h.Auth.RateLimited),
	)).Post(middleware.LoginPath, h.Auth.Login)
	r.Post("/logout", h.Auth.Logout)

	// Дашборд
	r.Route(handlers.DashboardPath, func(r chi.Router) {
		r.Use(h.SessionAuth.Middleware())

		r.Get("/", h.Dashboard.Show)

		r.Post("/files", h.Dashboard.CreateFile)
		r.Post("/files/{id}", h.Dashboard.UpdateFile)
		r.Post("/files/{id}/delete", h.Dashboard.DeleteFile)

		r.Post("/links", h.Dashboard.CreateLink)
		r.Post("/links/{id}", h.Dashboard.UpdateLink)
		r.Post("/links/{id}/delete", h.Dashboard.DeleteLink)

		r.Post("/settings", h.Dashboard.SaveSettings)
		r.Post("/settings/reset", h.Dashboard.ResetSettings)
	})

	r.NotFound(h.Pages.NotFound)

	return r
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
