// Пакет service — бизнес-логика каталога.
// CacheService — LRU-кэш с TTL поверх hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэшей (label cache — имя кэша).
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cat_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш.",
	}, []string{"cache"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cat_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша.",
	}, []string{"cache"})
)

// CacheService — LRU-кэш с автоматическим TTL.
// Каждый экземпляр сервера имеет собственный in-memory кэш.
type CacheService[V any] struct {
	cache  *expirable.LRU[string, V]
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCacheService создаёт LRU-кэш.
// name — имя кэша в метриках, maxSize — максимум записей, ttl — время жизни записи.
func NewCacheService[V any](name string, maxSize int, ttl time.Duration) *CacheService[V] {
	return &CacheService[V]{
		cache:  expirable.NewLRU[string, V](maxSize, nil, ttl),
		hits:   cacheHitsTotal.WithLabelValues(name),
		misses: cacheMissesTotal.WithLabelValues(name),
	}
}

// Get возвращает значение по ключу и обновляет метрики hit/miss.
func (c *CacheService[V]) Get(key string) (V, bool) {
	val, ok := c.cache.Get(key)
	if ok {
		c.hits.Inc()
		return val, true
	}
	c.misses.Inc()
	return val, false
}

// Set добавляет или обновляет запись.
func (c *CacheService[V]) Set(key string, val V) {
	c.cache.Add(key, val)
}

// Delete удаляет запись.
func (c *CacheService[V]) Delete(key string) {
	c.cache.Remove(key)
}

// Purge очищает кэш (инвалидация после записи из дашборда).
func (c *CacheService[V]) Purge() {
	c.cache.Purge()
}

// Len возвращает количество записей.
func (c *CacheService[V]) Len() int {
	return c.cache.Len()
}
