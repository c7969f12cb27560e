package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/ad_renderer/config"
	cachemem "github.com/Gunvolt24/ad_renderer/internal/cache/memory"
	"github.com/Gunvolt24/ad_renderer/internal/gateway"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/internal/render"
	rest "github.com/Gunvolt24/ad_renderer/internal/transport/http"
	"github.com/Gunvolt24/ad_renderer/internal/usecase"
	"github.com/Gunvolt24/ad_renderer/pkg/logger"
	"github.com/Gunvolt24/ad_renderer/pkg/metrics"
	"github.com/Gunvolt24/ad_renderer/pkg/telemetry"
	"github.com/Gunvolt24/ad_renderer/pkg/validate"
	"github.com/gin-gonic/gin"
)

// App - собранное приложение и его внешние интерфейсы (HTTP, фоновые компоненты).
type App struct {
	Logger          ports.Logger             // логгер
	HTTPServer      *http.Server             // HTTP-сервер
	Workers         []ports.BackgroundWorker // чистка кэша, наблюдение за шаблоном
	gracefulTimeout time.Duration            // время ожидания завершения HTTP-сервера
}

// Cleanup - функция освобождения ресурсов.
type Cleanup func()

// Option - замена стандартных компонентов встраивающим приложением.
type Option func(*options)

type options struct {
	renderer ports.AdRenderer
	builder  ports.ContextBuilder
}

// WithRenderer - собственный обработчик рендеринга вместо штатного шаблона.
func WithRenderer(r ports.AdRenderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithContextBuilder - собственный сборщик контекста инстанса вместо сборщика по умолчанию.
func WithContextBuilder(b ports.ContextBuilder) Option {
	return func(o *options) { o.builder = b }
}

// applyGinMode - устанавливает режим Gin по строке;
// неизвестное значение -> debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap - собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config, opts ...Option) (*App, Cleanup, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию - no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	var workers []ports.BackgroundWorker

	// Обработчик рендеринга: переданный приложением или штатный шаблон.
	renderer := o.renderer
	if renderer == nil {
		stock, rErr := render.NewFromFile(cfg.Render.Template, logg)
		if rErr != nil {
			_ = shutdownTrace(context.Background())
			if cErr := cleanupLogger(); cErr != nil {
				logg.Warnf(ctx, "cleanup logger: %v", cErr)
			}
			return nil, func() {}, rErr
		}
		if cfg.Render.Template != "" && cfg.Render.Watch {
			workers = append(workers, render.NewTemplateWatcher(stock, 0, logg))
		}
		renderer = stock
	}

	// Сборщик контекста: переданный приложением или сборщик по умолчанию поверх gateway.
	builder := o.builder
	if builder == nil {
		gatewayClient := gateway.NewClient(&gateway.Config{
			WorkerID:     cfg.Gateway.WorkerID,
			AuthToken:    cfg.Gateway.AuthToken,
			Timeout:      cfg.Gateway.Timeout,
			MaxRetries:   cfg.Gateway.MaxRetries,
			RetryInitial: cfg.Gateway.RetryInitial,
			RetryMax:     cfg.Gateway.RetryMax,
		}, logg)
		builder = usecase.NewCreativeContextBuilder(gatewayClient, cfg.Gateway.BaseURL, logg)
	}

	// Сборка зависимостей доменного слоя.
	contextCache := cachemem.NewContextCache()
	janitor := cachemem.NewJanitor(contextCache, cfg.Cache.SweepInterval, logg)
	workers = append(workers, janitor)
	adContents := usecase.NewAdContentsService(contextCache, builder, renderer, logg, cfg.Cache.TTL)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(adContents, validate.NewRequestValidator(), logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Workers:         workers,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		for _, w := range workers {
			if err := w.Close(); err != nil {
				logg.Warnf(ctx, "background worker close error: %v", err)
			}
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run - запускает HTTP-сервер и фоновые компоненты; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, len(a.Workers)+1)

	// Запуск фоновых компонентов.
	for _, w := range a.Workers {
		go func() {
			if err := w.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Errorf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка фоновых компонентов.
	for _, w := range a.Workers {
		if err := w.Close(); err != nil {
			a.Logger.Warnf(ctx, "background worker close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
