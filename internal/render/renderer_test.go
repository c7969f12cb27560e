package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func instanceContext() *domain.InstanceContext {
	return &domain.InstanceContext{
		Creative: domain.DisplayAd{Type: domain.DisplayAdType, ID: "abc", Format: "300x250"},
		CreativeProperties: []domain.PluginProperty{
			{TechnicalName: PropertyDestinationURL, Value: json.RawMessage(`{"url":"http://landing/?x=1"}`)},
			{TechnicalName: PropertyImageURL, Value: json.RawMessage(`"http://cdn/banner.png"`)},
			{TechnicalName: PropertyAltText, Value: json.RawMessage(`"Buy <now>"`)},
		},
	}
}

func TestRender_ClickChainAndDisplayContext(t *testing.T) {
	r := New(logger.FromZap(zap.NewNop()))

	resp, err := r.Render(context.Background(), &domain.RenderRequest{
		CreativeID: "abc",
		ClickURLs:  []string{"http://tracker/"},
	}, instanceContext())
	require.NoError(t, err)

	const click = "http://tracker/http%3A%2F%2Flanding%2F%3Fx%3D1"
	dc, ok := resp.DisplayContext.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc", dc[KeyCreativeID])
	assert.Equal(t, click, dc[KeyClickURL])
	assert.Equal(t, 300, dc[KeyWidth])
	assert.Equal(t, 250, dc[KeyHeight])

	assert.Contains(t, resp.HTML, `href="`+click+`"`)
	assert.Contains(t, resp.HTML, `src="http://cdn/banner.png"`)
	assert.Contains(t, resp.HTML, `alt="Buy &lt;now&gt;"`)
	assert.NotContains(t, resp.HTML, `style="display:none"`)
}

func TestRender_RequestSizeAndTrackingPixel(t *testing.T) {
	r := New(logger.FromZap(zap.NewNop()))

	resp, err := r.Render(context.Background(), &domain.RenderRequest{
		CreativeID:         "abc",
		Width:              728,
		Height:             90,
		DisplayTrackingURL: "http://pixel/imp",
	}, instanceContext())
	require.NoError(t, err)

	dc := resp.DisplayContext.(map[string]any)
	assert.Equal(t, 728, dc[KeyWidth])
	assert.Equal(t, 90, dc[KeyHeight])
	// без цепочки редиректов клик ведёт прямо на лендинг
	assert.Equal(t, "http://landing/?x=1", dc[KeyClickURL])
	assert.Contains(t, resp.HTML, `src="http://pixel/imp"`)
}

func TestRender_RequiresInputs(t *testing.T) {
	r := New(logger.FromZap(zap.NewNop()))
	_, err := r.Render(context.Background(), nil, instanceContext())
	require.Error(t, err)
	_, err = r.Render(context.Background(), &domain.RenderRequest{CreativeID: "abc"}, nil)
	require.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ad.html")
	require.NoError(t, os.WriteFile(path, []byte(`<div data-crid="{{.CreativeID}}">{{index .Properties "image_url"}}</div>`), 0o600))

	r, err := NewFromFile(path, logger.FromZap(zap.NewNop()))
	require.NoError(t, err)

	resp, err := r.Render(context.Background(), &domain.RenderRequest{CreativeID: "abc"}, instanceContext())
	require.NoError(t, err)
	assert.Equal(t, `<div data-crid="abc">http://cdn/banner.png</div>`, strings.TrimSpace(resp.HTML))

	_, err = NewFromFile(filepath.Join(dir, "missing.html"), logger.FromZap(zap.NewNop()))
	require.Error(t, err)

	r, err = NewFromFile("", logger.FromZap(zap.NewNop()))
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestParseFormat(t *testing.T) {
	cases := map[string][2]int{
		"300x250": {300, 250},
		"":        {0, 0},
		"native":  {0, 0},
		"axb":     {0, 0},
		"-1x10":   {0, 0},
	}
	for in, want := range cases {
		w, h := parseFormat(in)
		assert.Equal(t, want, [2]int{w, h}, in)
	}
}
