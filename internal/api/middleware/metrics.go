// metrics.go — Prometheus HTTP метрики каталога.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cat_http_requests_total",
			Help: "Общее количество HTTP-запросов к каталогу",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cat_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к каталогу в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware собирает количество и длительность запросов по нормализованному пути.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath заменяет slug и id в пути на плейсхолдеры:
// /file/summer-pack/download → /file/{slug}/download.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	prefixes := []struct {
		prefix string
		result string
	}{
		{"/file/", "/file/{slug}"},
		{"/api/v1/files/", "/api/v1/files/{slug}"},
		{"/dashboard/files/", "/dashboard/files/{id}"},
		{"/dashboard/links/", "/dashboard/links/{id}"},
	}

	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(path, p.prefix)
		if !ok || rest == "" {
			continue
		}
		_, suffix, found := strings.Cut(rest, "/")
		if !found {
			return p.result
		}
		switch suffix {
		case "download", "delete", "edit":
			return p.result + "/" + suffix
		default:
			return p.result + "/*"
		}
	}

	return path
}
