package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

func TestIsEmptyBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"no_bytes", "", true},
		{"whitespace", "  \n ", true},
		{"null", "null", true},
		{"empty_object", "{}", true},
		{"empty_array", "[]", true},
		{"empty_string", `""`, true},
		{"number", "42", true},
		{"object", `{"creative_id":"abc"}`, false},
		{"array", `[1]`, false},
		{"not_json", `{oops`, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsEmptyBody([]byte(tt.raw)); got != tt.want {
				t.Fatalf("IsEmptyBody(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeRenderRequest(t *testing.T) {
	t.Parallel()

	validator := NewRequestValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"ok", minimalRequestJSON("abc", "LIVE"), nil},
		{"ok_without_context", `{"creative_id":"abc"}`, nil},
		{"unknown_fields_allowed", `{"creative_id":"abc","new_platform_field":true}`, nil},
		{"empty", `{}`, ErrEmptyBody},
		{"malformed", `{"creative_id":`, domain.ErrBadRequest},
		{"wrong_shape", `[1,2]`, domain.ErrBadRequest},
		{"trailing", `{"creative_id":"abc"} {}`, domain.ErrBadRequest},
		{"missing_creative", `{"context":"LIVE"}`, ErrInvalidRequest},
		{"unknown_context_allowed", `{"creative_id":"abc","context":"SANDBOX"}`, nil},
		{"negative_width", `{"creative_id":"abc","width":-1}`, ErrInvalidRequest},
		{"empty_click_url", `{"creative_id":"abc","click_urls":["http://t/",""]}`, ErrInvalidRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := DecodeRenderRequest(ctx, validator, []byte(tt.raw))
			if tt.wantErr == nil {
				if err != nil || req == nil || req.CreativeID != "abc" {
					t.Fatalf("want ok, got req=%+v err=%v", req, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, domain.ErrBadRequest) {
				t.Fatalf("every decode failure must be ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestRequestValidator_Nil(t *testing.T) {
	t.Parallel()

	err := NewRequestValidator().Validate(context.Background(), nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}
