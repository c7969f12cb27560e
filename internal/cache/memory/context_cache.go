package memory

import (
	"sync"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/pkg/metrics"
)

// Проверка, что кэш удовлетворяет порту приложения.
var _ ports.InstanceContextCache = (*ContextCache)(nil)

type entry struct {
	key       domain.CreativeID
	value     *ports.ContextFuture
	createdAt time.Time
	ttl       time.Duration
}

// ContextCache - кэш отложенных контекстов инстансов с ленивым TTL.
// Значение записи - Future, а не готовый контекст: запись ставится до завершения сборки,
// поэтому конкурентные читатели ждут одну и ту же сборку (single-flight).
// Упавшая сборка остаётся в кэше до истечения TTL.
type ContextCache struct {
	mu      sync.Mutex
	entries map[domain.CreativeID]*entry
	now     func() time.Time
}

type Option func(*ContextCache)

// WithClock - подмена часов (для тестов).
func WithClock(now func() time.Time) Option {
	return func(c *ContextCache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewContextCache(opts ...Option) *ContextCache {
	c := &ContextCache{
		entries: make(map[domain.CreativeID]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get - живая запись или (nil, false). Истёкшая запись удаляется на месте.
func (c *ContextCache) Get(key domain.CreativeID) (*ports.ContextFuture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.liveLocked(key, c.now())
	if !ok {
		return nil, false
	}
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return ent.value, true
}

// Put - безусловная замена записи для ключа.
func (c *ContextCache) Put(key domain.CreativeID, f *ports.ContextFuture, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.installLocked(key, f, ttl, c.now())
	metrics.CacheOps.WithLabelValues("put").Inc()
}

// Load - атомарный check-then-put: при промахе или refresh вызывает start под блокировкой
// и ставит его результат. Два конкурентных промаха по одному ключу запускают одну сборку.
func (c *ContextCache) Load(
	key domain.CreativeID,
	refresh bool,
	ttl time.Duration,
	start func() *ports.ContextFuture,
) *ports.ContextFuture {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !refresh {
		if ent, ok := c.liveLocked(key, now); ok {
			metrics.CacheOps.WithLabelValues("hit").Inc()
			return ent.value
		}
	} else {
		metrics.CacheOps.WithLabelValues("refresh").Inc()
	}

	f := start()
	c.installLocked(key, f, ttl, now)
	metrics.CacheOps.WithLabelValues("put").Inc()
	return f
}

// Sweep - удаляет все истёкшие записи; возвращает их количество.
// Наблюдаемое поведение Get не меняется: истёкшие записи и так невидимы.
func (c *ContextCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, ent := range c.entries {
		if isExpired(ent, now) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheOps.WithLabelValues("swept").Add(float64(removed))
		metrics.CacheSize.Set(float64(len(c.entries)))
	}
	return removed
}

// Len - число установленных записей (включая ещё не вычищенные истёкшие).
func (c *ContextCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ------вспомогательные функции------

func (c *ContextCache) liveLocked(key domain.CreativeID, now time.Time) (*entry, bool) {
	ent, ok := c.entries[key]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	if isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		delete(c.entries, key)
		metrics.CacheSize.Set(float64(len(c.entries)))
		return nil, false
	}
	return ent, true
}

func (c *ContextCache) installLocked(key domain.CreativeID, f *ports.ContextFuture, ttl time.Duration, now time.Time) {
	c.entries[key] = &entry{
		key:       key,
		value:     f,
		createdAt: now,
		ttl:       ttl,
	}
	metrics.CacheSize.Set(float64(len(c.entries)))
}

// isExpired - запись истекла, когда now - createdAt >= ttl (ttl <= 0 значит "сразу").
func isExpired(ent *entry, now time.Time) bool {
	return now.Sub(ent.createdAt) >= ent.ttl
}
