package render

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// Проверка, что TemplateWatcher удовлетворяет интерфейсу фонового компонента.
var _ ports.BackgroundWorker = (*TemplateWatcher)(nil)

const defaultDebounce = 200 * time.Millisecond

// TemplateWatcher - перечитывает шаблон рендерера при изменении файла.
// Следит за каталогом, а не за файлом: атомарная замена (temp + rename) тоже видна.
// Пачки событий (write+chmod, rename+create) сливаются в одну перезагрузку.
type TemplateWatcher struct {
	renderer *Renderer
	debounce time.Duration
	log      ports.Logger

	stop      chan struct{}
	closeOnce sync.Once
}

// NewTemplateWatcher - конструктор. debounce <= 0 означает значение по умолчанию.
func NewTemplateWatcher(r *Renderer, debounce time.Duration, log ports.Logger) *TemplateWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &TemplateWatcher{renderer: r, debounce: debounce, log: log, stop: make(chan struct{})}
}

// Run - цикл наблюдения до отмены ctx или Close.
func (w *TemplateWatcher) Run(ctx context.Context) error {
	path := w.renderer.Path()
	if path == "" {
		return errors.New("template watcher: renderer has no template file")
	}
	dir, base := filepath.Dir(path), filepath.Base(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch dir %s: %w", dir, err)
	}
	w.log.Infof(ctx, "template watcher started path=%s", path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.renderer.Reload(); err != nil {
				w.log.Warnf(ctx, "template reload failed, keeping previous: %v", err)
				continue
			}
			w.log.Infof(ctx, "template reloaded path=%s", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf(ctx, "template watcher error: %v", err)
		}
	}
}

// Close - останавливает Run. Повторный вызов безопасен.
func (w *TemplateWatcher) Close() error {
	w.closeOnce.Do(func() { close(w.stop) })
	return nil
}
