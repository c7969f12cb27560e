package httpx

import (
	"github.com/Gunvolt24/ad_renderer/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader - заголовок сквозного идентификатора запроса.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen - id длиннее не принимаем: он попадает в каждую строку лога и в тело ошибки.
const maxRequestIDLen = 128

// RequestIDMiddleware:
//   - принимает X-Request-ID от платформы, если он пригоден для логов, иначе генерирует UUID
//   - кладёт request_id в контекст
//   - возвращает его в ответном заголовке X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestID - id текущего запроса; пусто, если middleware не подключён.
func RequestID(c *gin.Context) string {
	id, _ := ctxmeta.RequestIDFromContext(c.Request.Context())
	return id
}

// validRequestID - непустой, не длиннее maxRequestIDLen, только [A-Za-z0-9._:/-].
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':', ch == '/':
		default:
			return false
		}
	}
	return true
}
