package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидного LIVE-запроса рендеринга
func MakeRequest(opts ...func(*domain.RenderRequest)) *domain.RenderRequest {
	req := &domain.RenderRequest{
		CallID:     "call-" + UniqSuffix(),
		Context:    domain.ContextLive,
		CreativeID: "crid-" + UniqSuffix(),
		Protocol:   "https",
		ClickURLs:  []string{"http://tracker/"},
		Width:      300,
		Height:     250,
	}
	for _, fn := range opts {
		fn(req)
	}
	return req
}

// Доп. опция - креатив запроса
func WithCreative(id domain.CreativeID) func(*domain.RenderRequest) {
	return func(r *domain.RenderRequest) { r.CreativeID = id }
}

// Доп. опция - контекст показа (LIVE/PREVIEW/STAGE)
func WithContext(c domain.RequestContext) func(*domain.RenderRequest) {
	return func(r *domain.RenderRequest) { r.Context = c }
}

// MakeInstanceContext - контекст DISPLAY_AD с лендингом и картинкой.
func MakeInstanceContext(id domain.CreativeID, props ...domain.PluginProperty) *domain.InstanceContext {
	ic := &domain.InstanceContext{
		Creative: domain.DisplayAd{
			Type:   domain.DisplayAdType,
			ID:     id,
			Name:   "creative " + id,
			Format: "300x250",
		},
		CreativeProperties: []domain.PluginProperty{
			URLProperty("destination_url", "http://landing/?x=1"),
			URLProperty("image_url", "http://x/logo.png"),
		},
	}
	ic.CreativeProperties = append(ic.CreativeProperties, props...)
	return ic
}

// URLProperty - свойство типа URL в форме, которую отдаёт платформа: {"url": "..."}.
func URLProperty(name, url string) domain.PluginProperty {
	raw, _ := json.Marshal(map[string]string{"url": url})
	return domain.PluginProperty{TechnicalName: name, Value: raw, PropertyType: "URL"}
}
