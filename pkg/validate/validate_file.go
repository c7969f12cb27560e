package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/ad_renderer/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile - проверяет выгрузку запросов рендеринга и пишет валидные в writer каноническим JSONL.
// JSON-файл может содержать один запрос или массив запросов. Один невалидный запрос - ошибка,
// невалидные элементы массива и строки JSONL только попадают в Summary.
func ValidateFile(ctx context.Context, validator ports.RequestValidator, filePath string, format InputFormat, ow io.Writer) (Summary, error) {
	if format == FormatAuto {
		format = detectFormat(filePath)
	}
	if format != FormatJSON && format != FormatJSONL {
		return Summary{}, fmt.Errorf("unsupported format: %s", format)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return Summary{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if format == FormatJSONL {
		return ValidateJSONLStream(ctx, validator, file, ow)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return Summary{}, fmt.Errorf("read file: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	var sum Summary
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return sum, fmt.Errorf("decode request array: %w", err)
		}
		for i, item := range items {
			if err := checkRecord(ctx, validator, item, i+1, &sum, ow); err != nil {
				return sum, err
			}
		}
		return sum, nil
	}

	if err := checkRecord(ctx, validator, raw, 1, &sum, ow); err != nil {
		return sum, err
	}
	if len(sum.Errors) > 0 {
		return sum, sum.Errors[0]
	}
	return sum, nil
}

// detectFormat - по расширению; неизвестное считаем JSON.
func detectFormat(filePath string) InputFormat {
	if strings.EqualFold(filepath.Ext(filePath), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}
