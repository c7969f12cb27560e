package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Проверка, что Client удовлетворяет порту приложения.
var _ ports.GatewayClient = (*Client)(nil)

// maxBodySize - предел чтения ответа gateway.
const maxBodySize = 10 << 20

// ErrDecode - ответ gateway не является ожидаемым JSON-конвертом.
var ErrDecode = errors.New("gateway: invalid response envelope")

// StatusError - неуспешный HTTP-статус от gateway.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: %s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// Temporary - 5xx и 429 имеет смысл повторить.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// Client - HTTP-клиент платформы: basic-auth воркера, таймаут на попытку,
// экспоненциальный backoff с equal-jitter на временных ошибках.
type Client struct {
	http         *http.Client
	workerID     string
	authToken    string
	maxRetries   int
	retryInitial time.Duration
	retryMax     time.Duration
	log          ports.Logger
}

// NewClient - конструктор. Транспорт обёрнут otelhttp: исходящие запросы попадают в трейс.
func NewClient(cfg *Config, log ports.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		workerID:     cfg.WorkerID,
		authToken:    cfg.AuthToken,
		maxRetries:   cfg.MaxRetries,
		retryInitial: cfg.RetryInitial,
		retryMax:     cfg.RetryMax,
		log:          log,
	}
}

// Fetch - запрос к ресурсу платформы с повторами на временных ошибках.
// Отмена ctx прерывает и текущую попытку, и ожидание между попытками.
func (c *Client) Fetch(ctx context.Context, method, url string) (*ports.GatewayResponse, error) {
	retry := c.retryInitial

	for attempt := 0; ; attempt++ {
		resp, err := c.do(ctx, method, url)
		if err == nil {
			metrics.GatewayRequests.WithLabelValues(method, "ok").Inc()
			return resp, nil
		}

		if ctx.Err() != nil || !isTemporary(err) || attempt >= c.maxRetries {
			metrics.GatewayRequests.WithLabelValues(method, "error").Inc()
			return nil, err
		}

		metrics.GatewayRequests.WithLabelValues(method, "retry").Inc()
		sleep := withJitterEqual(retry)
		c.log.Warnf(ctx, "gateway %s %s failed (attempt %d): %v (will retry in %s)", method, url, attempt+1, err, sleep)
		if !sleepWithBackoff(ctx, sleep) {
			return nil, fmt.Errorf("gateway: %s %s: %w (last error: %v)", method, url, ctx.Err(), err)
		}
		retry = nextBackoff(retry, c.retryMax)
	}
}

func (c *Client) do(ctx context.Context, method, url string) (*ports.GatewayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.workerID != "" {
		req.SetBasicAuth(c.workerID, c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("gateway: %s %s: read body: %w", method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var envelope ports.GatewayResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDecode, method, url, err)
	}
	return &envelope, nil
}

// isTemporary - сетевые ошибки и 5xx/429 повторяем, остальное нет.
func isTemporary(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return !errors.Is(err, ErrDecode)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
