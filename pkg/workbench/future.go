package workbench

import (
	"context"

	"github.com/pkg/errors"
)

// Future holds the outcome of a single serialized request.
type Future[T any] struct {
	done   chan struct{}
	result T
	err    error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func failedFuture[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)

	return f
}

func (f *Future[T]) resolve(result T, err error) {
	f.result = result
	f.err = err
	close(f.done)
}

// Done is closed once the result is known.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the request finished.
func (f *Future[T]) Result() (T, error) {
	<-f.done

	return f.result, f.err
}

// Wait blocks until the request finished or ctx is done. Giving up waiting does not
// cancel the request.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}

	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T

		return zero, errors.Wrap(ctx.Err(), "stopped waiting for request")
	}
}
