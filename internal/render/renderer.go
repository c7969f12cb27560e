// Пакет render - обработчик рендеринга по умолчанию для штатного бинарника сервера.
// Встраивающее приложение обычно подставляет свой ports.AdRenderer.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
	"github.com/Gunvolt24/ad_renderer/pkg/clickurl"
)

// Проверка, что Renderer удовлетворяет порту приложения.
var _ ports.AdRenderer = (*Renderer)(nil)

// Технические имена свойств креатива, которые понимает штатный шаблон.
const (
	PropertyDestinationURL = "destination_url"
	PropertyImageURL       = "image_url"
	PropertyAltText        = "alt_text"
)

// Ключи display context.
const (
	KeyCreativeID = "$creative_id"
	KeyClickURL   = "$click_url"
	KeyWidth      = "$width"
	KeyHeight     = "$height"
)

const defaultTemplate = `<a href="{{.ClickURL}}" target="_blank" rel="noopener">` +
	`<img src="{{.ImageURL}}" alt="{{.AltText}}"{{if .Width}} width="{{.Width}}"{{end}}{{if .Height}} height="{{.Height}}"{{end}}/>` +
	`</a>` +
	`{{if .TrackingURL}}<img src="{{.TrackingURL}}" width="1" height="1" style="display:none" alt=""/>{{end}}`

// View - данные, доступные шаблону.
type View struct {
	CreativeID  string
	ClickURL    string
	ImageURL    string
	AltText     string
	TrackingURL string
	Width       int
	Height      int
	Properties  map[string]string
}

// Renderer - рендеринг креатива через html/template.
// Шаблон из файла можно перечитать на лету (Reload), текущие рендеры доигрывают со старым.
type Renderer struct {
	tmpl atomic.Pointer[template.Template]
	path string
	log  ports.Logger
}

// New - рендерер со встроенным шаблоном.
func New(log ports.Logger) *Renderer {
	r := &Renderer{log: log}
	r.tmpl.Store(template.Must(template.New("ad").Parse(defaultTemplate)))
	return r
}

// NewFromFile - рендерер с шаблоном из файла; пустой путь означает встроенный шаблон.
func NewFromFile(path string, log ports.Logger) (*Renderer, error) {
	if path == "" {
		return New(log), nil
	}
	r := &Renderer{path: path, log: log}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path - файл шаблона; пусто для встроенного.
func (r *Renderer) Path() string { return r.path }

// Reload - перечитать шаблон из файла. При ошибке разбора остаётся прежний шаблон.
func (r *Renderer) Reload() error {
	if r.path == "" {
		return nil
	}
	tmpl, err := template.ParseFiles(r.path)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", r.path, err)
	}
	r.tmpl.Store(tmpl)
	return nil
}

// Render - HTML креатива и display context.
// Клик-URL: цепочка редиректов запроса, внутрь которой вложен лендинг креатива.
func (r *Renderer) Render(ctx context.Context, req *domain.RenderRequest, ic *domain.InstanceContext) (*domain.RenderResponse, error) {
	if req == nil || ic == nil {
		return nil, fmt.Errorf("render: request and instance context are required")
	}

	props := make(map[string]string, len(ic.CreativeProperties))
	for _, p := range ic.CreativeProperties {
		if v, ok := p.StringValue(); ok {
			props[p.TechnicalName] = v
		}
	}

	chain := make([]string, 0, len(req.ClickURLs)+1)
	chain = append(chain, req.ClickURLs...)
	if landing := props[PropertyDestinationURL]; landing != "" {
		chain = append(chain, landing)
	}

	width, height := req.Width, req.Height
	if width == 0 && height == 0 {
		width, height = parseFormat(ic.Creative.Format)
	}

	view := View{
		CreativeID:  ic.Creative.ID,
		ClickURL:    clickurl.EncodeChain(chain),
		ImageURL:    props[PropertyImageURL],
		AltText:     props[PropertyAltText],
		TrackingURL: req.DisplayTrackingURL,
		Width:       width,
		Height:      height,
		Properties:  props,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Load().Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render: execute template: %w", err)
	}
	r.log.Debugf(ctx, "rendered creative=%s click_url=%s bytes=%d", view.CreativeID, view.ClickURL, buf.Len())

	return &domain.RenderResponse{
		HTML: buf.String(),
		DisplayContext: map[string]any{
			KeyCreativeID: view.CreativeID,
			KeyClickURL:   view.ClickURL,
			KeyWidth:      view.Width,
			KeyHeight:     view.Height,
		},
	}, nil
}

// parseFormat - "300x250" -> (300, 250); прочее -> (0, 0).
func parseFormat(format string) (int, int) {
	w, h, ok := strings.Cut(format, "x")
	if !ok {
		return 0, 0
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil || width < 0 || height < 0 {
		return 0, 0
	}
	return width, height
}
