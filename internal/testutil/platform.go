package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
)

// FakePlatform - gateway платформы поверх httptest: креативы в памяти, счётчики запросов.
type FakePlatform struct {
	Server *httptest.Server

	delay time.Duration

	mu        sync.RWMutex
	creatives map[string]*domain.InstanceContext
	types     map[string]string

	creativeCalls atomic.Int32
	propertyCalls atomic.Int32
}

// StartPlatform - поднять фейковую платформу; закрыть через Close.
// delay - задержка ответа метаданных: даёт конкурентным запросам встретиться.
func StartPlatform(delay time.Duration) *FakePlatform {
	p := &FakePlatform{
		delay:     delay,
		creatives: make(map[string]*domain.InstanceContext),
		types:     make(map[string]string),
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	return p
}

func (p *FakePlatform) URL() string { return p.Server.URL }
func (p *FakePlatform) Close()      { p.Server.Close() }

// Put - зарегистрировать креатив.
func (p *FakePlatform) Put(ic *domain.InstanceContext) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creatives[ic.Creative.ID] = ic
}

// SetType - подменить тип креатива в ответе (для проверки ошибки целостности).
func (p *FakePlatform) SetType(id, creativeType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types[id] = creativeType
}

func (p *FakePlatform) CreativeCalls() int { return int(p.creativeCalls.Load()) }
func (p *FakePlatform) PropertyCalls() int { return int(p.propertyCalls.Load()) }

func (p *FakePlatform) serve(w http.ResponseWriter, r *http.Request) {
	rest, ok := strings.CutPrefix(r.URL.Path, "/v1/creatives/")
	if !ok || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, sub, _ := strings.Cut(rest, "/")

	p.mu.RLock()
	ic, found := p.creatives[id]
	creativeType, overridden := p.types[id]
	p.mu.RUnlock()
	if !found {
		writeEnvelope(w, http.StatusNotFound, "error", nil)
		return
	}

	switch sub {
	case "":
		p.creativeCalls.Add(1)
		if p.delay > 0 {
			time.Sleep(p.delay)
		}
		creative := ic.Creative
		if overridden {
			creative.Type = creativeType
		}
		writeEnvelope(w, http.StatusOK, "ok", creative)
	case "renderer_properties":
		p.propertyCalls.Add(1)
		writeEnvelope(w, http.StatusOK, "ok", ic.CreativeProperties)
	default:
		http.NotFound(w, r)
	}
}

func writeEnvelope(w http.ResponseWriter, code int, status string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "data": data})
}
