package domain

import "encoding/json"

// CreativeID - идентификатор креатива; ключ кэша контекстов и аргумент сборщика контекста.
type CreativeID = string

// DisplayAdType - единственный допустимый тип креатива для рендерера.
const DisplayAdType = "DISPLAY_AD"

// DisplayAd - метаданные креатива, полученные из gateway (`/v1/creatives/{id}`).
// Поле Type обязательно совпадает с DisplayAdType, иначе это ошибка целостности.
type DisplayAd struct {
	Type               string `json:"type"`
	ID                 string `json:"id"`
	OrganisationID     string `json:"organisation_id,omitempty"`
	Name               string `json:"name,omitempty"`
	TechnicalName      string `json:"technical_name,omitempty"`
	Archived           bool   `json:"archived,omitempty"`
	EditorVersionID    string `json:"editor_version_id,omitempty"`
	EditorVersionValue string `json:"editor_version_value,omitempty"`
	EditorGroupID      string `json:"editor_group_id,omitempty"`
	EditorArtifactID   string `json:"editor_artifact_id,omitempty"`
	EditorPluginID     string `json:"editor_plugin_id,omitempty"`
	RendererVersionID  string `json:"renderer_version_id,omitempty"`
	RendererGroupID    string `json:"renderer_group_id,omitempty"`
	RendererArtifactID string `json:"renderer_artifact_id,omitempty"`
	RendererPluginID   string `json:"renderer_plugin_id,omitempty"`
	CreationDate       int64  `json:"creation_date,omitempty"`
	Subtype            string `json:"subtype,omitempty"`
	Format             string `json:"format,omitempty"`
}

// PluginProperty - свойство рендеринга креатива (`/v1/creatives/{id}/renderer_properties`).
// Value хранится сырым JSON: его форма зависит от PropertyType (URL, STRING, ASSET, DATA_FILE...).
type PluginProperty struct {
	TechnicalName string          `json:"technical_name"`
	Value         json.RawMessage `json:"value"`
	PropertyType  string          `json:"property_type,omitempty"`
	OriginID      string          `json:"origin,omitempty"`
	Writable      bool            `json:"writable,omitempty"`
	Deletable     bool            `json:"deletable,omitempty"`
}

// InstanceContext - неизменяемый контекст рендеринга одного креатива.
// Разделяется всеми конкурентными запросами, пока запись кэша жива; после сборки не мутируется.
type InstanceContext struct {
	Creative           DisplayAd
	CreativeProperties []PluginProperty
}

// Property - поиск свойства по technical_name.
func (ic *InstanceContext) Property(technicalName string) (PluginProperty, bool) {
	if ic == nil {
		return PluginProperty{}, false
	}
	for _, p := range ic.CreativeProperties {
		if p.TechnicalName == technicalName {
			return p, true
		}
	}
	return PluginProperty{}, false
}

// StringValue - достаёт строковое значение свойства.
// Поддерживает как голую строку, так и объект вида {"url": "..."} / {"value": "..."}.
func (p PluginProperty) StringValue() (string, bool) {
	if len(p.Value) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(p.Value, &s); err == nil {
		return s, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(p.Value, &obj); err != nil {
		return "", false
	}
	for _, key := range []string{"url", "value"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return "", false
}
