package domain

// RequestContext - контекст показа; определяет, можно ли переиспользовать кэш.
type RequestContext string

const (
	ContextLive    RequestContext = "LIVE"
	ContextPreview RequestContext = "PREVIEW"
	ContextStage   RequestContext = "STAGE"
)

// ForcesRebuild - PREVIEW и STAGE всегда пересобирают контекст инстанса.
// Остальные значения, включая пустое и незнакомые, кэшируются как LIVE.
func (c RequestContext) ForcesRebuild() bool {
	return c == ContextPreview || c == ContextStage
}

// UserAgentInfo - разобранный User-Agent, как его присылает платформа.
type UserAgentInfo struct {
	FormFactor    string `json:"form_factor,omitempty"`
	OSFamily      string `json:"os_family,omitempty"`
	BrowserFamily string `json:"browser_family,omitempty"`
	BrowserVer    string `json:"browser_version,omitempty"`
	Brand         string `json:"brand,omitempty"`
	Model         string `json:"model,omitempty"`
	AgentType     string `json:"agent_type,omitempty"`
}

// RenderRequest - тело POST /v1/ad_contents. После декодирования не меняется.
type RenderRequest struct {
	CallID             string         `json:"call_id"`
	Context            RequestContext `json:"context"`
	CreativeID         CreativeID     `json:"creative_id" validate:"required"`
	CampaignID         string         `json:"campaign_id,omitempty"`
	AdGroupID          string         `json:"ad_group_id,omitempty"`
	Protocol           string         `json:"protocol,omitempty"`
	UserAgent          string         `json:"user_agent,omitempty"`
	UserAgentInfo      *UserAgentInfo `json:"user_agent_info,omitempty"`
	DisplayTrackingURL string         `json:"display_tracking_url,omitempty"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	Restrictions       *Restrictions  `json:"restrictions,omitempty"`
	ReferrerURL        string         `json:"referrer_url,omitempty"`
	MediaID            string         `json:"media_id,omitempty"`
	ClickURLs          []string       `json:"click_urls,omitempty" validate:"omitempty,dive,required"`
	Width              int            `json:"width,omitempty" validate:"gte=0"`
	Height             int            `json:"height,omitempty" validate:"gte=0"`
}

// Restrictions - ограничения площадки на показ.
type Restrictions struct {
	Animation  string `json:"animation,omitempty"`
	Script     string `json:"script,omitempty"`
	Iframe     string `json:"iframe,omitempty"`
	AdServer   string `json:"ad_server,omitempty"`
	Mraid      string `json:"mraid,omitempty"`
	ScriptType string `json:"script_type,omitempty"`
}

// RenderResponse - результат обработчика рендеринга.
// DisplayContext уходит клиенту отдельно от тела, в заголовке x-mics-display-context.
type RenderResponse struct {
	HTML           string
	DisplayContext any
}
