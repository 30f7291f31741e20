// Точка входа генератора social-preview страниц.
// Запускается после сборки сайта: для каждой записи каталога пишет
// <dist>/file/<slug>/index.html с подставленными og/twitter тегами.
// Код завершения ненулевой только при отсутствии <dist>/index.html.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/calebdaradal/Nsfwph/internal/config"
	"github.com/calebdaradal/Nsfwph/internal/prerender"
	"github.com/calebdaradal/Nsfwph/internal/sbclient"
)

func main() {
	logger := config.PrerenderLogger()

	cfg, err := config.LoadPrerender(".env")
	if err != nil {
		// Нечитаемый .env не ломает сборку: конфигурация берётся из окружения процесса.
		logger.Warn("Ошибка чтения .env", slog.String("error", err.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	client := sbclient.New(cfg.BackendURL, cfg.AccessKey, 0, logger)
	res := prerender.Run(ctx, cfg, client, logger)

	stop()

	logger.Info("Генерация завершена",
		slog.String("outcome", res.Outcome.String()),
		slog.String("reason", res.Reason.String()),
		slog.Int("written", res.Written),
		slog.Int("skipped", res.Skipped),
	)
	os.Exit(res.ExitCode())
}
