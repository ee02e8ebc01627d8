package workbench

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/carlosphillips/cjworkbench/internal/log"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// Request names used by the mutator.
const (
	RequestApplyEdit        = "apply-edit"
	RequestInitializeModule = "initialize-module"
	RequestSelectModule     = "select-module"
)

// EditIntent is a user edit made while looking at the output of FromModuleID.
type EditIntent struct {
	WorkflowID   model.WorkflowID
	FromModuleID model.ModuleID
	Edit         Edit
	// ForceNew always inserts a new module after FromModuleID.
	ForceNew bool
}

// Mutator folds edit intents into the pipeline, through the serializer.
type Mutator struct {
	backend    model.Backend
	serializer *Serializer
	locateOpts []LocateOption
	inflight   inflight
}

// NewMutator creates a mutator sending its requests to backend through serializer.
func NewMutator(backend model.Backend, serializer *Serializer, opts ...MutatorOption) (*Mutator, error) {
	if backend == nil {
		return nil, ErrBackendMustBeSet
	}

	if serializer == nil {
		return nil, ErrSerializerMustBeSet
	}

	m := &Mutator{
		backend:    backend,
		serializer: serializer,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// ApplyEditIntent applies intent and returns the module it landed in, now selected.
// If ctx is done first, ApplyEditIntent returns but the intent still runs to completion.
func (m *Mutator) ApplyEditIntent(ctx context.Context, intent EditIntent) (model.ModuleID, error) {
	return m.Submit(ctx, intent).Wait(ctx)
}

// Submit starts applying intent and returns its future. The first request of the
// intent is queued before Submit returns, so intents apply in submission order.
//
// An intent cannot be cancelled: its requests run with a context detached from ctx's
// cancellation.
func (m *Mutator) Submit(ctx context.Context, intent EditIntent) *Future[model.ModuleID] {
	if intent.Edit == nil {
		return failedFuture[model.ModuleID](ErrEditMustBeSet)
	}

	detached := context.WithoutCancel(ctx)
	logger := log.SubLogger(log.FromContext(ctx), "mutator")

	// Reading the snapshot, merging and writing happen in the same serialized request,
	// so no other mutation can slip between the read and the write.
	landed := Enqueue(detached, m.serializer, model.RequestInfo{Name: RequestApplyEdit, ModuleID: intent.FromModuleID},
		func(ctx context.Context) (landing, error) {
			return m.locateAndWrite(ctx, logger, intent)
		})

	fut := newFuture[model.ModuleID]()

	m.inflight.add()

	go func() {
		defer m.inflight.done()

		id, err := m.finish(detached, logger, intent, landed)
		fut.resolve(id, err)
	}()

	return fut
}

// Drain blocks until every intent submitted so far is fully applied and every request
// already on the serializer has finished, or ctx is done.
func (m *Mutator) Drain(ctx context.Context) error {
	select {
	case <-m.inflight.wait():
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "unable to drain edit intents")
	}

	return m.serializer.Drain(ctx)
}

// landing is the outcome of the first request of an intent.
type landing struct {
	moduleID model.ModuleID
	inserted bool
}

// finish queues the requests depending on where the edit landed.
func (m *Mutator) finish(ctx context.Context, logger *slog.Logger, intent EditIntent, first *Future[landing]) (model.ModuleID, error) {
	landed, err := first.Result()
	if err != nil {
		return 0, err
	}

	if landed.inserted {
		// the update needs the id of the new module, so it is only enqueued once the
		// insert result is known
		_, err = Enqueue(ctx, m.serializer, model.RequestInfo{Name: RequestInitializeModule, ModuleID: landed.moduleID},
			func(ctx context.Context) (struct{}, error) {
				return struct{}{}, m.initialize(ctx, logger, intent, landed.moduleID)
			}).Result()
		if err != nil {
			return 0, err
		}
	}

	_, err = Enqueue(ctx, m.serializer, model.RequestInfo{Name: RequestSelectModule, ModuleID: landed.moduleID},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, m.backend.SelectModule(ctx, intent.WorkflowID, landed.moduleID)
		}).Result()
	if err != nil {
		return 0, err
	}

	return landed.moduleID, nil
}

// locateAndWrite updates the existing module of the edit's kind, or inserts a new one.
func (m *Mutator) locateAndWrite(ctx context.Context, logger *slog.Logger, intent EditIntent) (landing, error) {
	pipe, err := m.backend.Snapshot(ctx, intent.WorkflowID)
	if err != nil {
		return landing{}, errors.Wrap(err, "unable to read pipeline")
	}

	loc, err := Locate(pipe, intent.FromModuleID, intent.Edit.KindKey(), m.locateOpts...)
	if err != nil {
		return landing{}, err
	}

	if loc.Module != nil && !intent.ForceNew {
		param, err := loc.Module.Parameter(intent.Edit.ParamKey())
		if err != nil {
			return landing{}, err
		}

		value, err := m.merge(logger, intent.Edit, param)
		if err != nil {
			return landing{}, err
		}

		logger.Debug("updating existing module", "module", loc.Module.ID, "parameter", param.ID)

		err = m.backend.UpdateParameter(ctx, param.ID, model.StringValue(value))
		if err != nil {
			return landing{}, errors.Wrapf(err, "unable to update parameter %d", param.ID)
		}

		return landing{moduleID: loc.Module.ID}, nil
	}

	kindID, err := pipe.KindID(intent.Edit.KindKey())
	if err != nil {
		return landing{}, err
	}

	if loc.Module != nil {
		// forced: the new module goes right after from, not before the match
		fromIdx, err := pipe.IndexOf(intent.FromModuleID)
		if err != nil {
			return landing{}, err
		}

		loc.InsertionIndex = fromIdx + 1
	}

	logger.Debug("inserting module", "kind", intent.Edit.KindKey(), "index", loc.InsertionIndex)

	inserted, err := m.backend.InsertModule(ctx, intent.WorkflowID, kindID, loc.InsertionIndex)
	if err != nil {
		return landing{}, errors.Wrapf(err, "unable to insert %s module", intent.Edit.KindKey())
	}

	return landing{moduleID: inserted.ID, inserted: true}, nil
}

// initialize sets the initial values of a module created for the intent's edit, then the
// merged edit. The module is read again since requests queued in between may have
// changed it.
func (m *Mutator) initialize(ctx context.Context, logger *slog.Logger, intent EditIntent, id model.ModuleID) error {
	pipe, err := m.backend.Snapshot(ctx, intent.WorkflowID)
	if err != nil {
		return errors.Wrap(err, "unable to read pipeline")
	}

	mod, err := pipe.Module(id)
	if err != nil {
		return err
	}

	edit := intent.Edit
	if initer, ok := edit.(Initializer); ok {
		for _, pv := range initer.InitialValues() {
			param, err := mod.Parameter(pv.Key)
			if err != nil {
				logger.Debug("skipping initial value", "module", mod.ID, "parameter", pv.Key)

				continue
			}

			err = m.backend.UpdateParameter(ctx, param.ID, pv.Value)
			if err != nil {
				return errors.Wrapf(err, "unable to initialize parameter %s", pv.Key)
			}
		}
	}

	param, err := mod.Parameter(edit.ParamKey())
	if err != nil {
		return err
	}

	value, err := m.merge(logger, edit, param)
	if err != nil {
		return err
	}

	err = m.backend.UpdateParameter(ctx, param.ID, model.StringValue(value))
	if err != nil {
		return errors.Wrapf(err, "unable to update parameter %d", param.ID)
	}

	return nil
}

func (m *Mutator) merge(logger *slog.Logger, edit Edit, param *model.Parameter) (string, error) {
	value, status, err := edit.Merge(param.Value)
	if err != nil {
		return "", errors.Wrapf(err, "unable to merge into parameter %d", param.ID)
	}

	if status == DecodeMalformed {
		logger.Warn("stored value is malformed, starting from empty", "parameter", param.ID)
	}

	return value, nil
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)

	return c
}()

// inflight counts the intents whose later requests may still be enqueued.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (in *inflight) add() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.n == 0 {
		in.idle = make(chan struct{})
	}

	in.n++
}

func (in *inflight) done() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.n--
	if in.n == 0 {
		close(in.idle)
	}
}

// wait returns a channel closed once no intent is in flight.
func (in *inflight) wait() <-chan struct{} {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.n == 0 {
		return closedChan
	}

	return in.idle
}
