package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/pkg/ctxmeta"
	"github.com/Gunvolt24/ad_renderer/pkg/future"
	"github.com/Gunvolt24/ad_renderer/pkg/metrics"
)

// Проверка, что AdContentsService удовлетворяет порту приложения.
var _ ports.AdContentsService = (*AdContentsService)(nil)

// AdContentsService - конвейер обработки запроса рендеринга (без знаний о транспорте).
// Собственного состояния между запросами не держит: всё общее живёт в кэше.
type AdContentsService struct {
	cache    ports.InstanceContextCache // кэш отложенных контекстов
	builder  ports.ContextBuilder       // сборка контекста при промахе
	renderer ports.AdRenderer           // обработчик рендеринга, может быть nil
	log      ports.Logger
	ttl      time.Duration
}

// NewAdContentsService - DI-конструктор. renderer может быть nil: тогда каждый запрос
// завершится ErrNoHandlerRegistered.
func NewAdContentsService(
	cache ports.InstanceContextCache,
	builder ports.ContextBuilder,
	renderer ports.AdRenderer,
	log ports.Logger,
	ttl time.Duration,
) *AdContentsService {
	return &AdContentsService{
		cache:    cache,
		builder:  builder,
		renderer: renderer,
		log:      log,
		ttl:      ttl,
	}
}

// AdContents - обработать запрос рендеринга.
// Шаги:
//  1. проверка запроса;
//  2. решение по кэшу: промах или PREVIEW/STAGE ставят в кэш новую сборку;
//  3. ожидание контекста (общего для всех конкурентных запросов по креативу);
//  4. вызов обработчика рендеринга.
//
// Повторов нет: любая ошибка завершает текущий запрос.
func (s *AdContentsService) AdContents(ctx context.Context, req *domain.RenderRequest) (*domain.RenderResponse, error) {
	if req == nil || req.CreativeID == "" {
		metrics.AdContents.WithLabelValues("bad_request").Inc()
		err := domain.NewRenderError(domain.ErrBadRequest, "", errors.New("creative_id is required"))
		s.log.Warnf(ctx, "rejected render request err=%v", err)
		return nil, err
	}

	creativeID := req.CreativeID
	ctx = ctxmeta.WithCreativeID(ctx, creativeID)

	ic, err := s.resolveContext(ctx, req)
	if isCallerDone(ctx, err) {
		metrics.AdContents.WithLabelValues("caller_done").Inc()
		s.log.Warnf(ctx, "request ended before instance context was ready crid=%s err=%v", creativeID, err)
		return nil, err
	}
	if err != nil {
		metrics.AdContents.WithLabelValues("context_error").Inc()
		s.log.Errorf(ctx, "instance context failed crid=%s err=%v\n%s", creativeID, err, domain.Diagnostic(err))
		return nil, err
	}

	if s.renderer == nil {
		metrics.AdContents.WithLabelValues("no_handler").Inc()
		err := domain.NewRenderError(domain.ErrNoHandlerRegistered, creativeID, nil)
		s.log.Errorf(ctx, "%v", err)
		return nil, err
	}

	start := time.Now()
	resp, err := s.renderer.Render(ctx, req, ic)
	if err == nil && resp == nil {
		err = errors.New("handler returned no response")
	}
	if err != nil {
		metrics.AdContents.WithLabelValues("render_error").Inc()
		err = domain.NewRenderError(domain.ErrRenderFailure, creativeID, err)
		s.log.Errorf(ctx, "render failed crid=%s err=%v\n%s", creativeID, err, domain.Diagnostic(err))
		return nil, err
	}

	metrics.AdContents.WithLabelValues("ok").Inc()
	s.log.Debugf(ctx, "rendered crid=%s context=%s took=%s", creativeID, req.Context, time.Since(start))
	return resp, nil
}

// resolveContext - взять (или поставить) сборку в кэш и дождаться её результата.
// Проверка и установка атомарны, поэтому конкурентные промахи запускают одну сборку.
func (s *AdContentsService) resolveContext(ctx context.Context, req *domain.RenderRequest) (*domain.InstanceContext, error) {
	creativeID := req.CreativeID
	refresh := req.Context.ForcesRebuild()

	f := s.cache.Load(creativeID, refresh, s.ttl, func() *ports.ContextFuture {
		if refresh {
			s.log.Debugf(ctx, "context=%s forces rebuild crid=%s", req.Context, creativeID)
		} else {
			s.log.Debugf(ctx, "no live instance context crid=%s, building", creativeID)
		}
		return s.startBuild(ctx, creativeID)
	})
	if f == nil {
		return nil, domain.NewRenderError(domain.ErrContextUnavailable, creativeID,
			errors.New("no cache entry right after install"))
	}

	ic, err := f.Await(ctx)
	if isCallerDone(ctx, err) {
		// сборка продолжается для остальных ожидающих
		return nil, fmt.Errorf("await instance context crid=%s: %w", creativeID, err)
	}
	if err != nil {
		var re *domain.RenderError
		if !errors.As(err, &re) {
			err = domain.NewRenderError(domain.ErrContextUnavailable, creativeID, err)
		}
		return nil, err
	}
	if ic == nil {
		return nil, domain.NewRenderError(domain.ErrContextUnavailable, creativeID, errors.New("builder returned no context"))
	}
	return ic, nil
}

// startBuild - запуск сборки в отдельной горутине. Сборка общая для многих запросов,
// поэтому отмена контекста запроса её не прерывает (значения контекста сохраняются).
func (s *AdContentsService) startBuild(ctx context.Context, creativeID domain.CreativeID) *ports.ContextFuture {
	return future.Go(context.WithoutCancel(ctx), func(bctx context.Context) (*domain.InstanceContext, error) {
		return s.builder.Build(bctx, creativeID)
	})
}

// isCallerDone - ошибка вызвана отменой или дедлайном контекста самого запроса.
func isCallerDone(ctx context.Context, err error) bool {
	ctxErr := ctx.Err()
	return err != nil && ctxErr != nil && errors.Is(err, ctxErr)
}
