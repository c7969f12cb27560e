package ports

import (
	"context"
	"encoding/json"
)

// GatewayResponse - конверт ответа платформы: {"status": "...", "data": ...}.
type GatewayResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// GatewayClient - клиент удалённых ресурсов платформы.
// Политика повторов (retry/backoff) - ответственность реализации.
type GatewayClient interface {
	Fetch(ctx context.Context, method, url string) (*GatewayResponse, error)
}
