// dephealth.go — мониторинг зависимостей каталога через topologymetrics SDK.
//
// Каталог мониторит:
//   - PostgreSQL — SQL checker через существующий pgxpool (critical)
//   - BaaS auth — HTTP checker к /auth/v1/health (non-critical: без него
//     не работает только вход в дашборд)
//
// Метрики app_dependency_* доступны на /metrics.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// backendHealthPath — health endpoint auth-сервиса BaaS.
const backendHealthPath = "/auth/v1/health"

// DephealthService — мониторинг зависимостей.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// DephealthConfig — параметры мониторинга.
type DephealthConfig struct {
	// ServiceID — имя вершины графа (например, "catalogue")
	ServiceID string
	Group     string
	// PgConnURL — DSN PostgreSQL (только для лейблов метрик)
	PgConnURL string
	// BackendURL — базовый URL BaaS
	BackendURL    string
	CheckInterval time.Duration
}

// NewDephealthService создаёт сервис с глобальным Prometheus registry.
// db — *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool().
func NewDephealthService(cfg DephealthConfig, db *sql.DB, logger *slog.Logger) (*DephealthService, error) {
	return newDephealthService(cfg, db, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным registerer (для тестов).
func NewDephealthServiceWithRegisterer(
	cfg DephealthConfig,
	db *sql.DB,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(cfg, db, logger, dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	cfg DephealthConfig,
	db *sql.DB,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	backendOpts := []dephealth.DependencyOption{
		dephealth.FromURL(cfg.BackendURL),
		dephealth.WithHTTPHealthPath(backendHealthPath),
		dephealth.CheckInterval(cfg.CheckInterval),
		dephealth.Critical(false),
	}
	if parsed, err := url.Parse(cfg.BackendURL); err == nil && parsed.Scheme == "https" {
		backendOpts = append(backendOpts, dephealth.WithHTTPTLSSkipVerify(false))
	}

	opts := make([]dephealth.Option, 0, 3+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(cfg.PgConnURL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		),
		dephealth.HTTP("baas-auth", backendOpts...),
	)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (PostgreSQL + BaaS auth)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает состояние зависимостей: имя — true, если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
