package ports

import (
	"context"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

// AdRenderer - обработчик рендеринга, который поставляет встраивающее приложение.
type AdRenderer interface {
	Render(ctx context.Context, req *domain.RenderRequest, ic *domain.InstanceContext) (*domain.RenderResponse, error)
}

// AdRendererFunc - адаптер обычной функции к AdRenderer.
type AdRendererFunc func(ctx context.Context, req *domain.RenderRequest, ic *domain.InstanceContext) (*domain.RenderResponse, error)

func (f AdRendererFunc) Render(ctx context.Context, req *domain.RenderRequest, ic *domain.InstanceContext) (*domain.RenderResponse, error) {
	return f(ctx, req, ic)
}
