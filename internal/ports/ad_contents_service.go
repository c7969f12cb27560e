package ports

import (
	"context"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

// AdContentsService - сервис рендеринга креативов (без знаний о транспорте).
type AdContentsService interface {
	AdContents(ctx context.Context, req *domain.RenderRequest) (*domain.RenderResponse, error)
}
