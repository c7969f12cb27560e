package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/pkg/metrics"
	"github.com/Gunvolt24/ad_renderer/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Проверка, что CreativeContextBuilder удовлетворяет порту приложения.
var _ ports.ContextBuilder = (*CreativeContextBuilder)(nil)

// errAnotherCreativeType - gateway вернул креатив не DISPLAY_AD.
var errAnotherCreativeType = errors.New("gateway returned another creative type")

// msgAnotherCreativeType - текст ошибки в логе при несовпадении типа креатива.
const msgAnotherCreativeType = "When fetching DisplayAd, another creative type was returned!"

// CreativeContextBuilder - сборщик контекста по умолчанию: метаданные креатива и
// свойства рендерера запрашиваются у gateway параллельно.
type CreativeContextBuilder struct {
	gateway ports.GatewayClient
	baseURL string
	log     ports.Logger
}

// NewCreativeContextBuilder - DI-конструктор.
// Встраивающее приложение обычно подставляет свой сборщик, поэтому использование
// сборщика по умолчанию отмечается предупреждением при старте.
func NewCreativeContextBuilder(gateway ports.GatewayClient, baseURL string, log ports.Logger) *CreativeContextBuilder {
	baseURL = strings.TrimRight(baseURL, "/")
	log.Warnf(context.Background(),
		"default instance context builder in use (gateway=%s): override it if the renderer needs more than creative + properties",
		baseURL)
	return &CreativeContextBuilder{gateway: gateway, baseURL: baseURL, log: log}
}

// Build - собрать контекст инстанса. Ошибка любой из веток проваливает всю сборку,
// частичный контекст не возвращается. Повторы - забота gateway-клиента.
func (b *CreativeContextBuilder) Build(ctx context.Context, creativeID domain.CreativeID) (_ *domain.InstanceContext, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ContextBuilder.Build", attribute.String("creative.id", creativeID))
	start := time.Now()
	defer func() {
		metrics.ContextBuildDuration.Observe(time.Since(start).Seconds())
		metrics.ContextBuilds.WithLabelValues(buildResult(err)).Inc()
		telemetry.EndSpan(span, err)
	}()

	var (
		creative   *domain.DisplayAd
		properties []domain.PluginProperty
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, fetchErr := b.FetchDisplayAd(gctx, creativeID)
		creative = c
		return fetchErr
	})
	g.Go(func() error {
		p, fetchErr := b.FetchDisplayAdProperties(gctx, creativeID)
		properties = p
		return fetchErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.InstanceContext{
		Creative:           *creative,
		CreativeProperties: properties,
	}, nil
}

// FetchDisplayAd - метаданные креатива; тип обязан быть DISPLAY_AD.
func (b *CreativeContextBuilder) FetchDisplayAd(ctx context.Context, creativeID domain.CreativeID) (*domain.DisplayAd, error) {
	resp, err := b.gateway.Fetch(ctx, http.MethodGet, b.creativeURL(creativeID))
	if err != nil {
		return nil, domain.NewRenderError(domain.ErrFetchFailure, creativeID, err)
	}
	b.log.Debugf(ctx, "Fetched Creative: %s - %s", creativeID, resp.Data)

	var creative domain.DisplayAd
	if err := json.Unmarshal(resp.Data, &creative); err != nil {
		return nil, domain.NewRenderError(domain.ErrFetchFailure, creativeID, fmt.Errorf("decode creative: %w", err))
	}
	if creative.Type != domain.DisplayAdType {
		b.log.Errorf(ctx, "crid: %s - %s (got %q)", creativeID, msgAnotherCreativeType, creative.Type)
		return nil, domain.NewRenderError(domain.ErrTypeMismatch, creativeID,
			fmt.Errorf("%w (got %q)", errAnotherCreativeType, creative.Type))
	}
	return &creative, nil
}

// FetchDisplayAdProperties - свойства рендерера креатива в порядке, заданном платформой.
func (b *CreativeContextBuilder) FetchDisplayAdProperties(ctx context.Context, creativeID domain.CreativeID) ([]domain.PluginProperty, error) {
	resp, err := b.gateway.Fetch(ctx, http.MethodGet, b.creativeURL(creativeID)+"/renderer_properties")
	if err != nil {
		return nil, domain.NewRenderError(domain.ErrFetchFailure, creativeID, err)
	}
	b.log.Debugf(ctx, "Fetched Creative Properties: %s - %s", creativeID, resp.Data)

	var properties []domain.PluginProperty
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &properties); err != nil {
			return nil, domain.NewRenderError(domain.ErrFetchFailure, creativeID, fmt.Errorf("decode properties: %w", err))
		}
	}
	return properties, nil
}

func (b *CreativeContextBuilder) creativeURL(creativeID domain.CreativeID) string {
	return b.baseURL + "/v1/creatives/" + url.PathEscape(creativeID)
}

func buildResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTypeMismatch):
		return "type_mismatch"
	default:
		return "fetch_failure"
	}
}
