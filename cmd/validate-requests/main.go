package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/ad_renderer/pkg/validate"
)

// CLI-приложение для проверки тел запросов рендеринга (например, выгрузки из логов).
// Валидные запросы печатаются в stdout каноническим JSONL, ошибки и итог - в stderr.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	top := flag.Int("top", 5, "print the N most requested creatives")
	flag.Parse()

	ctx := context.Background()
	requestValidator := validate.NewRequestValidator()

	format := validate.InputFormat(*formatStr)

	// stdin вариант: считаем, что jsonl
	path := *inputPath
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	summary, err := validate.ValidateFile(ctx, requestValidator, path, format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	for _, lineErr := range summary.Errors {
		fmt.Fprintln(os.Stderr, lineErr)
	}
	for _, id := range summary.TopCreatives(*top) {
		fmt.Fprintf(os.Stderr, "creative %s: %d requests\n", id, summary.Creatives[id])
	}
	if summary.Invalid > 0 {
		fmt.Fprintf(os.Stderr, "validation failed (%s)\n", summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
}
