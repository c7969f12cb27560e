// Пакет ctxmeta - метаданные запроса, которые прокидываются через context.Context
// (request_id, creative_id, trace/span). HTTP-слой, usecase и логгер зависят
// от этого пакета, но не друг от друга.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	// Ключи контекста (собственный тип ключа - чтобы избежать коллизий).
	KeyRequestID  ctxKey = "request_id"
	KeyCreativeID ctxKey = "creative_id"
)

// WithRequestID кладёт request_id в контекст (если пусто - ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithCreativeID кладёт идентификатор креатива, который обрабатывает запрос.
func WithCreativeID(ctx context.Context, creativeID string) context.Context {
	return withString(ctx, KeyCreativeID, creativeID)
}

func CreativeIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyCreativeID)
}

// TraceIDFromContext - trace_id активного спана; без спана ("", false).
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", false
	}
	return sc.TraceID().String(), true
}

func SpanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
