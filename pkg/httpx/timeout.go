package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestTimeout - дедлайн контекста запроса. Обработчик не прерывается принудительно:
// нижележащий код обязан сам следить за ctx.Done().
// Если дедлайн истёк, а ответ так и не записан, отдаём 500 с JSON-ошибкой.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			AbortWithTimeout(c)
		}
	}
}

// AbortWithTimeout - ответ на истёкший дедлайн запроса: 500 {"error":"request timeout"}.
// Обработчик вызывает его сам, если заметил дедлайн раньше, чем записал ответ.
func AbortWithTimeout(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgRequestTimeout})
}

const msgRequestTimeout = "request timeout"
