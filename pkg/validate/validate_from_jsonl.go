package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/internal/ports"
)

// maxReportedErrors - сколько ошибок по строкам держим в Summary; счётчик Invalid не ограничен.
const maxReportedErrors = 100

// LineError - невалидная запись выгрузки. Line - номер строки JSONL или позиция в JSON-массиве (с 1).
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e LineError) Unwrap() error { return e.Err }

// Summary - итог проверки выгрузки запросов рендеринга.
// Rebuilds и Creatives показывают, сколько сборок контекста вызвала бы такая нагрузка.
type Summary struct {
	Valid     int
	Invalid   int
	Rebuilds  int                       // PREVIEW/STAGE
	Creatives map[domain.CreativeID]int // валидных запросов на креатив
	Errors    []LineError               // первые maxReportedErrors ошибок
}

func (s Summary) String() string {
	return fmt.Sprintf("%d valid / %d invalid, %d creatives, %d forced rebuilds",
		s.Valid, s.Invalid, len(s.Creatives), s.Rebuilds)
}

// TopCreatives - до n креативов с наибольшим числом запросов (при равенстве - по id).
func (s Summary) TopCreatives(n int) []domain.CreativeID {
	ids := make([]domain.CreativeID, 0, len(s.Creatives))
	for id := range s.Creatives {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.Creatives[ids[i]] != s.Creatives[ids[j]] {
			return s.Creatives[ids[i]] > s.Creatives[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if n >= 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func (s *Summary) accept(req *domain.RenderRequest) {
	if s.Creatives == nil {
		s.Creatives = make(map[domain.CreativeID]int)
	}
	s.Valid++
	s.Creatives[req.CreativeID]++
	if req.Context.ForcesRebuild() {
		s.Rebuilds++
	}
}

func (s *Summary) reject(line int, err error) {
	s.Invalid++
	if len(s.Errors) < maxReportedErrors {
		s.Errors = append(s.Errors, LineError{Line: line, Err: err})
	}
}

// ValidateJSONLStream - читает JSONL с запросами рендеринга (например, выгрузку из access-лога),
// валидирует каждую строку, валидные пишет в writer каноническим JSON одной строкой.
// Пустые строки пропускаются, но учитываются в нумерации.
func ValidateJSONLStream(ctx context.Context, validator ports.RequestValidator, ir io.Reader, ow io.Writer) (Summary, error) {
	var sum Summary

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if err := checkRecord(ctx, validator, raw, line, &sum, ow); err != nil {
			return sum, err
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("scan: %w", err)
	}
	return sum, nil
}

// checkRecord - проверка одной записи; возвращает только ошибку записи в writer.
func checkRecord(ctx context.Context, validator ports.RequestValidator, raw []byte, line int, sum *Summary, ow io.Writer) error {
	req, err := DecodeRenderRequest(ctx, validator, raw)
	if err != nil {
		sum.reject(line, err)
		return nil
	}
	canonical, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal line %d: %w", line, err)
	}
	if _, err := ow.Write(append(canonical, '\n')); err != nil {
		return fmt.Errorf("write line %d: %w", line, err)
	}
	sum.accept(req)
	return nil
}
