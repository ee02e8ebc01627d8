package workbench

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/carlosphillips/cjworkbench/internal/log"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// Serializer runs mutating requests one at a time, in the order they were enqueued.
//
// A request starts only once the result of the previous one is known, whether it
// succeeded or failed. The zero value is not usable, use NewSerializer.
type Serializer struct {
	mu   sync.Mutex
	tail <-chan struct{}
	opts []model.RequestOption
}

// NewSerializer creates an idle serializer.
func NewSerializer(opts ...SerializerOption) *Serializer {
	idle := make(chan struct{})
	close(idle)

	s := &Serializer{tail: idle}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Enqueue schedules fn after every request already enqueued on s and returns the future
// of this request alone. fn receives ctx, extended with req.
//
// Errors returned by fn are wrapped with the request name and delivered unchanged
// otherwise. There are no retries.
func Enqueue[T any](ctx context.Context, s *Serializer, req model.RequestInfo, fn func(context.Context) (T, error)) *Future[T] {
	if s == nil {
		return failedFuture[T](ErrSerializerMustBeSet)
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	info := &req
	fut := newFuture[T]()
	done := make(chan struct{})

	s.mu.Lock()
	prev := s.tail
	s.tail = done
	s.mu.Unlock()

	logger := log.SubLogger(log.FromContext(ctx), "serializer")
	s.notify(logger, info, func(opt model.RequestOption) error {
		return opt.OnEnqueue(info)
	})

	enqueued := time.Now()

	go func() {
		// the next request starts only after the caller of this one can see the result
		defer close(done)
		<-prev

		waited := time.Since(enqueued)
		s.notify(logger, info, func(opt model.RequestOption) error {
			return opt.OnStart(info, waited)
		})
		logger.Debug("request started", "request", info.Name, "id", info.ID, "waited", waited)

		start := time.Now()
		res, err := runUnit(model.ContextWithRequest(ctx, info), fn)
		elapsed := time.Since(start)

		if err != nil {
			err = errors.Wrapf(err, "request %s", info.Name)
			logger.Debug("request failed", "request", info.Name, "id", info.ID, "elapsed", elapsed, "err", err)
		} else {
			logger.Debug("request done", "request", info.Name, "id", info.ID, "elapsed", elapsed)
		}

		s.notify(logger, info, func(opt model.RequestOption) error {
			return opt.OnFinish(info, elapsed, err)
		})
		fut.resolve(res, err)
	}()

	return fut
}

// Drain blocks until every request enqueued so far has finished, or ctx is done.
func (s *Serializer) Drain(ctx context.Context) error {
	s.mu.Lock()
	tail := s.tail
	s.mu.Unlock()

	select {
	case <-tail:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "unable to drain serializer")
	}
}

// notify runs a hook on every option. Hook failures never affect the request.
func (s *Serializer) notify(logger *slog.Logger, info *model.RequestInfo, hook func(opt model.RequestOption) error) {
	for _, opt := range s.opts {
		if err := hook(opt); err != nil {
			logger.Warn("request hook failed", "request", info.Name, "id", info.ID, "err", err)
		}
	}
}

// runUnit turns a panic into an error so the queue keeps flowing.
func runUnit[T any](ctx context.Context, fn func(context.Context) (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrUnitPanicked, "%v", r)
		}
	}()

	return fn(ctx)
}
