package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/cache/memory"
	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/internal/ports/mocks"
	"github.com/Gunvolt24/ad_renderer/internal/testutil"
	"github.com/Gunvolt24/ad_renderer/internal/usecase"
	"github.com/Gunvolt24/ad_renderer/pkg/future"
	"github.com/golang/mock/gomock"
)

const ttl = time.Minute

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func liveRequest(crid string) *domain.RenderRequest {
	return testutil.MakeRequest(testutil.WithCreative(crid))
}

func contextFor(crid string) *domain.InstanceContext {
	return testutil.MakeInstanceContext(crid)
}

func TestAdContents_FirstLiveRequest_EndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	renderer := mocks.NewMockAdRenderer(ctrl)

	ic := &domain.InstanceContext{
		Creative:           domain.DisplayAd{Type: domain.DisplayAdType, ID: creativeID},
		CreativeProperties: []domain.PluginProperty{{TechnicalName: "logo_url", Value: []byte(`"http://x/logo.png"`)}},
	}
	req := liveRequest(creativeID)
	want := &domain.RenderResponse{HTML: "<div>ad</div>", DisplayContext: map[string]any{"$creative_id": creativeID}}

	gomock.InOrder(
		builder.EXPECT().Build(gomock.Any(), creativeID).Return(ic, nil).Times(1),
		renderer.EXPECT().Render(gomock.Any(), req, ic).Return(want, nil),
	)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

	got, err := svc.AdContents(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected handler response, got %+v", got)
	}
}

func TestAdContents_LiveReusesCachedContext(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	renderer := mocks.NewMockAdRenderer(ctrl)

	ic := contextFor(creativeID)
	builder.EXPECT().Build(gomock.Any(), creativeID).Return(ic, nil).Times(1)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), ic).
		Return(&domain.RenderResponse{HTML: "ok"}, nil).Times(3)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

	for i := 0; i < 3; i++ {
		if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
}

func TestAdContents_PreviewAndStageAlwaysRebuild(t *testing.T) {
	for _, reqCtx := range []domain.RequestContext{domain.ContextPreview, domain.ContextStage} {
		t.Run(string(reqCtx), func(t *testing.T) {
			ctrl := gomock.NewController(t)

			builder := mocks.NewMockContextBuilder(ctrl)
			renderer := mocks.NewMockAdRenderer(ctrl)

			stale := contextFor("stale")
			fresh := contextFor("fresh")

			gomock.InOrder(
				builder.EXPECT().Build(gomock.Any(), creativeID).Return(stale, nil),
				builder.EXPECT().Build(gomock.Any(), creativeID).Return(fresh, nil),
			)
			renderer.EXPECT().Render(gomock.Any(), gomock.Any(), stale).Return(&domain.RenderResponse{HTML: "stale"}, nil)
			renderer.EXPECT().Render(gomock.Any(), gomock.Any(), fresh).Return(&domain.RenderResponse{HTML: "fresh"}, nil).Times(2)

			svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

			if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); err != nil {
				t.Fatalf("live: %v", err)
			}
			got, err := svc.AdContents(context.Background(), testutil.MakeRequest(testutil.WithCreative(creativeID), testutil.WithContext(reqCtx)))
			if err != nil || got.HTML != "fresh" {
				t.Fatalf("%s must rebuild, got %+v err=%v", reqCtx, got, err)
			}
			// новая сборка осталась в кэше для последующих LIVE-запросов
			got, err = svc.AdContents(context.Background(), liveRequest(creativeID))
			if err != nil || got.HTML != "fresh" {
				t.Fatalf("live after %s must reuse fresh context, got %+v err=%v", reqCtx, got, err)
			}
		})
	}
}

func TestAdContents_ConcurrentMissesShareOneBuild(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	renderer := mocks.NewMockAdRenderer(ctrl)

	release := make(chan struct{})
	var builds atomic.Int32
	ic := contextFor(creativeID)

	builder.EXPECT().Build(gomock.Any(), creativeID).DoAndReturn(
		func(context.Context, string) (*domain.InstanceContext, error) {
			builds.Add(1)
			<-release
			return ic, nil
		}).Times(1)

	const callers = 32
	seen := make(chan *domain.InstanceContext, callers)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.RenderRequest, got *domain.InstanceContext) (*domain.RenderResponse, error) {
			seen <- got
			return &domain.RenderResponse{HTML: "ok"}, nil
		}).Times(callers)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); err != nil {
				errs <- err
			}
		}()
	}

	close(release)
	wg.Wait()
	close(errs)
	close(seen)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := builds.Load(); n != 1 {
		t.Fatalf("expected exactly one build, got %d", n)
	}
	for got := range seen {
		if got != ic {
			t.Fatalf("callers must observe the same context instance")
		}
	}
}

func TestAdContents_FailedBuildIsCachedUntilTTL(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	renderer := mocks.NewMockAdRenderer(ctrl)

	mismatch := domain.NewRenderError(domain.ErrTypeMismatch, creativeID, errors.New("another creative type"))
	builder.EXPECT().Build(gomock.Any(), creativeID).Return(nil, mismatch).Times(1)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

	for i := 0; i < 2; i++ {
		_, err := svc.AdContents(context.Background(), liveRequest(creativeID))
		if !errors.Is(err, domain.ErrTypeMismatch) {
			t.Fatalf("request %d: expected ErrTypeMismatch, got %v", i, err)
		}
	}
}

func TestAdContents_NoHandlerRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	builder.EXPECT().Build(gomock.Any(), creativeID).Return(contextFor(creativeID), nil)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, nil, noopLogger{}, ttl)

	_, err := svc.AdContents(context.Background(), liveRequest(creativeID))
	if !errors.Is(err, domain.ErrNoHandlerRegistered) {
		t.Fatalf("expected ErrNoHandlerRegistered, got %v", err)
	}
	if errors.Is(err, domain.ErrRenderFailure) {
		t.Fatalf("missing handler must be distinct from render failure")
	}
}

func TestAdContents_RenderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	renderer := mocks.NewMockAdRenderer(ctrl)

	boom := errors.New("template exploded")
	builder.EXPECT().Build(gomock.Any(), creativeID).Return(contextFor(creativeID), nil)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

	_, err := svc.AdContents(context.Background(), liveRequest(creativeID))
	if !errors.Is(err, domain.ErrRenderFailure) || !errors.Is(err, boom) {
		t.Fatalf("expected render failure wrapping cause, got %v", err)
	}
}

func TestAdContents_NilResponseIsRenderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	builder := mocks.NewMockContextBuilder(ctrl)
	builder.EXPECT().Build(gomock.Any(), creativeID).Return(contextFor(creativeID), nil)

	renderer := ports.AdRendererFunc(func(context.Context, *domain.RenderRequest, *domain.InstanceContext) (*domain.RenderResponse, error) {
		return nil, nil
	})
	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, renderer, noopLogger{}, ttl)

	if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); !errors.Is(err, domain.ErrRenderFailure) {
		t.Fatalf("expected ErrRenderFailure, got %v", err)
	}
}

func TestAdContents_BadRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warnf(gomock.Any(), "rejected render request err=%v", gomock.Any()).Times(2)

	svc := usecase.NewAdContentsService(
		mocks.NewMockInstanceContextCache(ctrl),
		mocks.NewMockContextBuilder(ctrl),
		mocks.NewMockAdRenderer(ctrl),
		log, ttl,
	)

	for _, req := range []*domain.RenderRequest{nil, {Context: domain.ContextLive}} {
		_, err := svc.AdContents(context.Background(), req)
		if !errors.Is(err, domain.ErrBadRequest) {
			t.Fatalf("expected ErrBadRequest, got %v", err)
		}
		if strings.Contains(err.Error(), "crid:") {
			t.Fatalf("no creative id, no crid prefix: %q", err.Error())
		}
	}
}

func TestAdContents_DeadlineWhileAwaitingIsNotContextError(t *testing.T) {
	ctrl := gomock.NewController(t)

	release := make(chan struct{})
	defer close(release)

	builder := mocks.NewMockContextBuilder(ctrl)
	builder.EXPECT().Build(gomock.Any(), creativeID).DoAndReturn(
		func(context.Context, string) (*domain.InstanceContext, error) {
			<-release
			return contextFor(creativeID), nil
		}).Times(1)

	svc := usecase.NewAdContentsService(memory.NewContextCache(), builder, mocks.NewMockAdRenderer(ctrl), noopLogger{}, ttl)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.AdContents(ctx, liveRequest(creativeID))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	var re *domain.RenderError
	if errors.As(err, &re) {
		t.Fatalf("caller deadline must not be classified as %v", re.Kind)
	}
}

func TestAdContents_MissingEntryIsLogicError(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache := mocks.NewMockInstanceContextCache(ctrl)
	cache.EXPECT().Load(creativeID, false, ttl, gomock.Any()).Return(nil)

	svc := usecase.NewAdContentsService(cache, mocks.NewMockContextBuilder(ctrl), mocks.NewMockAdRenderer(ctrl), noopLogger{}, ttl)

	if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); !errors.Is(err, domain.ErrContextUnavailable) {
		t.Fatalf("expected ErrContextUnavailable, got %v", err)
	}
}

func TestAdContents_CallerCancelDoesNotAbortSharedBuild(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache := memory.NewContextCache()
	builder := mocks.NewMockContextBuilder(ctrl)
	renderer := mocks.NewMockAdRenderer(ctrl)

	release := make(chan struct{})
	ic := contextFor(creativeID)
	builder.EXPECT().Build(gomock.Any(), creativeID).DoAndReturn(
		func(bctx context.Context, _ string) (*domain.InstanceContext, error) {
			<-release
			if bctx.Err() != nil {
				return nil, bctx.Err()
			}
			return ic, nil
		}).Times(1)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), ic).Return(&domain.RenderResponse{HTML: "ok"}, nil)

	svc := usecase.NewAdContentsService(cache, builder, renderer, noopLogger{}, ttl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.AdContents(ctx, liveRequest(creativeID)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for the disconnected caller, got %v", err)
	}

	close(release)
	f, ok := cache.Get(creativeID)
	if !ok {
		t.Fatalf("build must stay installed")
	}
	if _, err := f.Await(context.Background()); err != nil {
		t.Fatalf("shared build must complete: %v", err)
	}
	if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); err != nil {
		t.Fatalf("next caller must reuse the build: %v", err)
	}
}

func TestAdContents_UsesInstalledFuture(t *testing.T) {
	ctrl := gomock.NewController(t)

	ic := contextFor(creativeID)
	cache := memory.NewContextCache()
	cache.Put(creativeID, future.Resolved(ic), ttl)

	renderer := mocks.NewMockAdRenderer(ctrl)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), ic).Return(&domain.RenderResponse{HTML: "ok"}, nil)

	svc := usecase.NewAdContentsService(cache, mocks.NewMockContextBuilder(ctrl), renderer, noopLogger{}, ttl)
	if _, err := svc.AdContents(context.Background(), liveRequest(creativeID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
