package ports

import (
	"context"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

// ContextBuilder - сборка контекста инстанса по идентификатору креатива.
// Дорогая операция (два удалённых вызова), поэтому результат кэшируется.
type ContextBuilder interface {
	Build(ctx context.Context, creativeID domain.CreativeID) (*domain.InstanceContext, error)
}
