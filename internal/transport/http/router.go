package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/pkg/ctxmeta"
	"github.com/Gunvolt24/ad_renderer/pkg/httpx"
	"github.com/Gunvolt24/ad_renderer/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// DisplayContextHeader - заголовок ответа с JSON display context.
const DisplayContextHeader = "x-mics-display-context"

// maxBodySize - предел тела запроса рендеринга.
const maxBodySize = 1 << 20

const (
	msgMissingBody = "Missing request body"
	msgNoListener  = "No AdContents listener registered!"
)

type Handler struct {
	service        ports.AdContentsService
	validator      ports.RequestValidator
	log            ports.Logger
	handlerTimeout time.Duration
}

func NewHandler(
	service ports.AdContentsService,
	validator ports.RequestValidator,
	log ports.Logger,
	handlerTimeout time.Duration,
) *Handler {
	return &Handler{service: service, validator: validator, log: log, handlerTimeout: handlerTimeout}
}

// NewRouter - gin-роутер сервиса. otelServiceName пустой - трейсинг входящих запросов выключен.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestLogger(h.log))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/v1/status", h.status)

	r.POST("/v1/ad_contents", httpx.RequestTimeout(h.handlerTimeout), h.adContents)

	return r
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// adContents - POST /v1/ad_contents.
// Любая ошибка отдаётся как 500: пустое тело и отсутствующий обработчик - JSON,
// остальное - текст ошибки и диагностическая трасса.
func (h *Handler) adContents(c *gin.Context) {
	ctx := c.Request.Context()

	var raw []byte
	if c.Request.Body != nil {
		var err error
		if raw, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.log.Warnf(ctx, "request body exceeds %d bytes", tooLarge.Limit)
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("request body too large (limit %d bytes)", tooLarge.Limit)})
				return
			}
			h.log.Errorf(ctx, "read body failed err=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if validate.IsEmptyBody(raw) {
		h.log.Errorf(ctx, "POST /v1/ad_contents: %s", msgMissingBody)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgMissingBody})
		return
	}

	req, err := validate.DecodeRenderRequest(ctx, h.validator, raw)
	if err != nil {
		h.log.Warnf(ctx, "invalid render request err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx = ctxmeta.WithCreativeID(ctx, req.CreativeID)

	resp, err := h.service.AdContents(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoHandlerRegistered):
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgNoListener})
		case errors.Is(ctx.Err(), context.DeadlineExceeded) && errors.Is(err, context.DeadlineExceeded):
			httpx.AbortWithTimeout(c)
		default:
			h.writeDiagnostic(c, err)
		}
		return
	}

	displayContext, err := json.Marshal(resp.DisplayContext)
	if err != nil {
		h.log.Errorf(ctx, "marshal display context failed crid=%s err=%v", req.CreativeID, err)
		h.writeDiagnostic(c, err)
		return
	}

	c.Header(DisplayContextHeader, string(displayContext))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(resp.HTML))
}

// writeDiagnostic - 500 text/plain: сообщение, трасса цепочки ошибок и request_id для поиска в логах.
func (h *Handler) writeDiagnostic(c *gin.Context, err error) {
	body := err.Error() + "\n" + domain.Diagnostic(err)
	if id := httpx.RequestID(c); id != "" {
		body += "\nrequest_id: " + id
	}
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(body))
}
