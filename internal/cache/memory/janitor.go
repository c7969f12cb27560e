package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/ports"
)

// Проверка, что Janitor удовлетворяет интерфейсу фонового компонента.
var _ ports.BackgroundWorker = (*Janitor)(nil)

type sweeper interface {
	Sweep(now time.Time) int
}

// Janitor - периодическая вычистка истёкших записей кэша.
// Только освобождает память: Get и без неё не отдаёт истёкшие записи.
type Janitor struct {
	cache    sweeper
	interval time.Duration
	log      ports.Logger

	stop      chan struct{}
	closeOnce sync.Once
}

// NewJanitor - конструктор. interval <= 0 отключает вычистку (Run просто ждёт остановки).
func NewJanitor(cache sweeper, interval time.Duration, log ports.Logger) *Janitor {
	return &Janitor{
		cache:    cache,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Run - цикл до отмены ctx или Close.
func (j *Janitor) Run(ctx context.Context) error {
	if j.interval <= 0 {
		j.log.Infof(ctx, "cache janitor disabled")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-j.stop:
			return nil
		}
	}

	j.log.Infof(ctx, "cache janitor started interval=%s", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-j.stop:
			return nil
		case now := <-ticker.C:
			if n := j.cache.Sweep(now); n > 0 {
				j.log.Debugf(ctx, "cache janitor swept %d expired entries", n)
			}
		}
	}
}

// Close - останавливает Run. Повторный вызов безопасен.
func (j *Janitor) Close() error {
	j.closeOnce.Do(func() { close(j.stop) })
	return nil
}
