package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

func TestValidateJSONLStream_Mixed(t *testing.T) {
	// строка 2 без creative_id, строка 3 пустая, незнакомый контекст в строке 5 допустим
	lines := []string{
		oneLineJSON(minimalRequestJSON("crid-1", "LIVE")),
		oneLineJSON(minimalRequestJSON("", "LIVE")),
		"",
		oneLineJSON(minimalRequestJSON("crid-3", "PREVIEW")),
		oneLineJSON(minimalRequestJSON("crid-1", "SANDBOX")),
	}

	var out bytes.Buffer
	sum, err := ValidateJSONLStream(context.Background(), NewRequestValidator(), strings.NewReader(strings.Join(lines, "\n")), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Valid != 3 || sum.Invalid != 1 || sum.Rebuilds != 1 {
		t.Fatalf("unexpected counters: %+v", sum)
	}
	if len(sum.Errors) != 1 || sum.Errors[0].Line != 2 {
		t.Fatalf("expected error on line 2, got %+v", sum.Errors)
	}
	if top := sum.TopCreatives(1); len(top) != 1 || top[0] != "crid-1" {
		t.Fatalf("unexpected top creatives: %v", top)
	}

	outLines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(outLines) != 3 {
		t.Fatalf("expected 3 output lines, got %d", len(outLines))
	}
	for _, line := range outLines {
		var r domain.RenderRequest
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		if r.CreativeID != "crid-1" && r.CreativeID != "crid-3" {
			t.Fatalf("unexpected creative_id in output: %s", r.CreativeID)
		}
	}
}

func TestValidateJSONLStream_ReportedErrorsCapped(t *testing.T) {
	var in strings.Builder
	for i := 0; i < maxReportedErrors+5; i++ {
		in.WriteString(`{"context":"LIVE"}` + "\n")
	}

	var out bytes.Buffer
	sum, err := ValidateJSONLStream(context.Background(), NewRequestValidator(), strings.NewReader(in.String()), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Invalid != maxReportedErrors+5 || len(sum.Errors) != maxReportedErrors {
		t.Fatalf("invalid=%d reported=%d", sum.Invalid, len(sum.Errors))
	}
	if got := sum.Errors[0].Error(); !strings.HasPrefix(got, "line 1: ") {
		t.Fatalf("unexpected line error %q", got)
	}
}

func TestValidateJSONLStream_LargeLine(t *testing.T) {
	bigUA := strings.Repeat("X", 200_000) // > 64KB
	raw := `{"call_id":"c","context":"LIVE","creative_id":"crid-big","user_agent":"` + bigUA + `"}`

	var out bytes.Buffer
	sum, err := ValidateJSONLStream(context.Background(), NewRequestValidator(), strings.NewReader(raw+"\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Valid != 1 || sum.Invalid != 0 {
		t.Fatalf("unexpected counters: %+v", sum)
	}
}

func TestSummary_TopCreativesOrder(t *testing.T) {
	sum := Summary{Creatives: map[domain.CreativeID]int{"b": 2, "a": 2, "c": 5, "d": 1}}

	if got := fmt.Sprint(sum.TopCreatives(3)); got != "[c a b]" {
		t.Fatalf("unexpected order %s", got)
	}
	if got := len(sum.TopCreatives(-1)); got != 4 {
		t.Fatalf("negative n returns all, got %d", got)
	}
}

// ------ функции-помощники ------

func minimalRequestJSON(creativeID, reqCtx string) string {
	return `{
	  "call_id": "call-1",
	  "context": "` + reqCtx + `",
	  "creative_id": "` + creativeID + `",
	  "campaign_id": "cmp-1",
	  "protocol": "https",
	  "click_urls": ["http://tracker/?r="],
	  "width": 300,
	  "height": 250
	}`
}

func oneLineJSON(s string) string {
	var b bytes.Buffer
	_ = json.Compact(&b, []byte(s))
	return b.String()
}
