package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
)

// ErrEmptyBody - тело запроса отсутствует или пустое.
var ErrEmptyBody = fmt.Errorf("%w: missing request body", domain.ErrBadRequest)

// IsEmptyBody - пустым считается отсутствие байт, а также JSON-значение без содержимого:
// null, {}, [], "" и скаляры (число/булево не несут полей запроса).
func IsEmptyBody(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// не JSON - не пустое, пусть упадёт на декодировании
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case string:
		return t == ""
	default:
		return true
	}
}

// DecodeRenderRequest - разбор и валидация RenderRequest из JSON.
// Неизвестные поля допускаются: платформа расширяет запрос без смены версии API.
func DecodeRenderRequest(ctx context.Context, validator ports.RequestValidator, raw []byte) (*domain.RenderRequest, error) {
	if IsEmptyBody(raw) {
		return nil, ErrEmptyBody
	}

	var req domain.RenderRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrBadRequest, err)
	}
	// после объекта не должно быть лишних данных
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", domain.ErrBadRequest)
	}
	if err := validator.Validate(ctx, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
