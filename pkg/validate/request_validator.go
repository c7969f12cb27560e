package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/go-playground/validator/v10"
)

// Проверка, что RequestValidator удовлетворяет интерфейсу порта.
var _ ports.RequestValidator = (*RequestValidator)(nil)

// ErrInvalidRequest - базовая ошибка валидации запроса; всегда также domain.ErrBadRequest.
var ErrInvalidRequest = fmt.Errorf("%w: render request validation failed", domain.ErrBadRequest)

// RequestValidator - проверка тела POST /v1/ad_contents по тегам `validate`.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate - возвращает ErrInvalidRequest (с перечислением полей) при любой проблеме.
func (rv *RequestValidator) Validate(ctx context.Context, req *domain.RenderRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	err := rv.v.StructCtx(ctx, req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
}
