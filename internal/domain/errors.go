package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Таксономия ошибок рендерера. Все они приводятся к ответу 500 на границе HTTP.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrTypeMismatch        = errors.New("creative type mismatch")
	ErrFetchFailure        = errors.New("gateway fetch failed")
	ErrNoHandlerRegistered = errors.New("no ad contents handler registered")
	ErrRenderFailure       = errors.New("ad contents rendering failed")
	ErrContextUnavailable  = errors.New("instance context unavailable")
)

// RenderError - ошибка обработки запроса с видом (Kind), креативом и причиной.
// errors.Is срабатывает и на Kind, и на любую ошибку в цепочке Err.
type RenderError struct {
	Kind       error
	CreativeID CreativeID
	Err        error
}

// NewRenderError - конструктор; если err уже RenderError того же вида, он возвращается как есть.
func NewRenderError(kind error, creativeID CreativeID, err error) *RenderError {
	var re *RenderError
	if errors.As(err, &re) && errors.Is(re.Kind, kind) {
		return re
	}
	return &RenderError{Kind: kind, CreativeID: creativeID, Err: err}
}

// Error - "crid: <id> - <вид>: <причина>"; без креатива префикс опускается.
func (e *RenderError) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.CreativeID == "" {
		return msg
	}
	return fmt.Sprintf("crid: %s - %s", e.CreativeID, msg)
}

func (e *RenderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Diagnostic - многострочная трассировка цепочки обёрнутых ошибок (для тела ответа 500 и логов).
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	depth := 0
	walkErrors(err, func(e error) {
		fmt.Fprintf(&b, "%s%d: %T: %s\n", strings.Repeat("  ", depth), depth, e, e.Error())
		depth++
	})
	return strings.TrimRight(b.String(), "\n")
}

func walkErrors(err error, visit func(error)) {
	for err != nil {
		visit(err)
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return
			}
			// первым идёт вид ошибки, дальше интересна причина
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return
		}
	}
}
