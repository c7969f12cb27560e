// Пакет future - отложенное значение, которое можно ждать из многих горутин.
// Используется как значение кэша: пока вычисление не завершилось, все читатели
// получают один и тот же Future и ждут один и тот же результат.
package future

import (
	"context"
	"fmt"
)

// Future - результат вычисления, которое идёт (или уже завершилось) в отдельной горутине.
// После закрытия done поля value/err не меняются, поэтому читаются без блокировок.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go - запускает fn в новой горутине и сразу возвращает Future.
// Паника в fn превращается в ошибку, чтобы ожидающие не зависли навсегда.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.value, f.err = zero, fmt.Errorf("future: panic: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved - уже выполненный Future со значением v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Failed - уже выполненный Future с ошибкой err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done - канал закрывается по завершении вычисления.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await - ждёт результат или отмену ctx. Отмена ctx не прерывает само вычисление.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled - (true, err) если вычисление завершилось; не блокирует.
func (f *Future[T]) Settled() (bool, error) {
	select {
	case <-f.done:
		return true, f.err
	default:
		return false, nil
	}
}
