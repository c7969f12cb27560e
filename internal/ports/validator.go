package ports

import (
	"context"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

type RequestValidator interface {
	Validate(ctx context.Context, req *domain.RenderRequest) error
}
