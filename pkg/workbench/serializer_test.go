package workbench_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosphillips/cjworkbench/pkg/workbench"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

func TestEnqueueRunsInOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workbench.NewSerializer()

	var (
		mu      sync.Mutex
		order   []int
		running int
		overlap bool
	)

	futures := make([]*workbench.Future[int], 0, 5)
	for i := 0; i < 5; i++ {
		i := i
		futures = append(futures, workbench.Enqueue(ctx, s, model.RequestInfo{Name: "unit"}, func(context.Context) (int, error) {
			mu.Lock()
			running++
			overlap = overlap || running > 1
			mu.Unlock()

			// earlier units are slower
			time.Sleep(time.Duration(5-i) * 2 * time.Millisecond)

			mu.Lock()
			running--
			order = append(order, i)
			mu.Unlock()

			return i * 10, nil
		}))
	}

	for i, fut := range futures {
		res, err := fut.Result()
		require.NoError(t, err)
		assert.Equal(t, i*10, res)
	}

	require.NoError(t, s.Drain(ctx))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.False(t, overlap)
}

func TestEnqueueFailureDoesNotBlockQueue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workbench.NewSerializer()
	boom := errors.New("boom")

	failed := workbench.Enqueue(ctx, s, model.RequestInfo{Name: "insert"}, func(context.Context) (int, error) {
		return 0, boom
	})
	next := workbench.Enqueue(ctx, s, model.RequestInfo{Name: "select"}, func(context.Context) (string, error) {
		return "selected", nil
	})

	_, err := failed.Result()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "request insert: boom", err.Error())

	res, err := next.Result()
	require.NoError(t, err)
	assert.Equal(t, "selected", res)
}

func TestEnqueuePanic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workbench.NewSerializer()

	panicked := workbench.Enqueue(ctx, s, model.RequestInfo{Name: "bad"}, func(context.Context) (int, error) {
		panic("oops")
	})
	next := workbench.Enqueue(ctx, s, model.RequestInfo{Name: "good"}, func(context.Context) (int, error) {
		return 1, nil
	})

	_, err := panicked.Result()
	assert.ErrorIs(t, err, workbench.ErrUnitPanicked)
	assert.Contains(t, err.Error(), "oops")

	res, err := next.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, res)
}

func TestEnqueueNilSerializer(t *testing.T) {
	t.Parallel()

	_, err := workbench.Enqueue(context.Background(), nil, model.RequestInfo{Name: "x"}, func(context.Context) (int, error) {
		return 1, nil
	}).Result()
	assert.ErrorIs(t, err, workbench.ErrSerializerMustBeSet)
}

func TestEnqueueRequestInContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workbench.NewSerializer()

	tcs := map[string]struct {
		in model.RequestInfo
	}{
		"generated id": {in: model.RequestInfo{Name: "apply-edit", ModuleID: 20}},
		"given id":     {in: model.RequestInfo{ID: "abc", Name: "undo"}},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := workbench.Enqueue(ctx, s, tc.in, func(ctx context.Context) (*model.RequestInfo, error) {
				req, ok := model.RequestFromContext(ctx)
				if !ok {
					return nil, errors.New("no request in context")
				}

				return req, nil
			}).Result()
			require.NoError(t, err)

			assert.Equal(t, tc.in.Name, got.Name)
			assert.Equal(t, tc.in.ModuleID, got.ModuleID)
			assert.NotEmpty(t, got.ID)

			if tc.in.ID != "" {
				assert.Equal(t, tc.in.ID, got.ID)
			}
		})
	}
}

type recordingHook struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (h *recordingHook) record(event string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, event)
	if h.fail {
		return errors.New("hook failed")
	}

	return nil
}

func (h *recordingHook) OnEnqueue(req *model.RequestInfo) error {
	return h.record("enqueue " + req.Name)
}

func (h *recordingHook) OnStart(req *model.RequestInfo, _ time.Duration) error {
	return h.record("start " + req.Name)
}

func (h *recordingHook) OnFinish(req *model.RequestInfo, _ time.Duration, err error) error {
	if err != nil {
		return h.record("fail " + req.Name)
	}

	return h.record("finish " + req.Name)
}

func TestSerializerHooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hook := &recordingHook{}
	failing := &recordingHook{fail: true}
	s := workbench.NewSerializer(workbench.SerializerHooks(hook, failing))

	_, err := workbench.Enqueue(ctx, s, model.RequestInfo{Name: "a"}, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	}).Result()
	require.Error(t, err)

	res, err := workbench.Enqueue(ctx, s, model.RequestInfo{Name: "b"}, func(context.Context) (int, error) {
		return 2, nil
	}).Result()
	require.NoError(t, err)
	assert.Equal(t, 2, res)

	require.NoError(t, s.Drain(ctx))

	hook.mu.Lock()
	defer hook.mu.Unlock()
	assert.Equal(t, []string{"enqueue a", "start a", "fail a", "enqueue b", "start b", "finish b"}, hook.events)
	assert.Len(t, failing.events, 6)
}

func TestFutureWait(t *testing.T) {
	t.Parallel()

	s := workbench.NewSerializer()
	release := make(chan struct{})

	fut := workbench.Enqueue(context.Background(), s, model.RequestInfo{Name: "slow"}, func(context.Context) (int, error) {
		<-release

		return 7, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fut.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer drainCancel()
	assert.ErrorIs(t, s.Drain(drainCtx), context.DeadlineExceeded)

	close(release)

	res, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res)

	select {
	case <-fut.Done():
	default:
		t.Fatal("future should be done")
	}
}
