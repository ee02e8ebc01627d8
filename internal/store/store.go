package store

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// Operations recorded by the store.
const (
	OpSnapshot        = "snapshot"
	OpInsertModule    = "insert-module"
	OpUpdateParameter = "update-parameter"
	OpSelectModule    = "select-module"
	OpDeleteModule    = "delete-module"
	OpReorderModules  = "reorder-modules"
	OpUndo            = "undo"
	OpRedo            = "redo"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrInvalidOrder     = errors.New("module order is not a permutation of the pipeline")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
)

// ParamSpec is a parameter created on every new module of a kind.
type ParamSpec struct {
	Key     string
	Default string
}

// KindSpec describes a module kind the store can insert.
type KindSpec struct {
	Kind   model.ModuleKind
	Params []ParamSpec
}

// Call is one backend call received by the store.
type Call struct {
	Op          string
	WorkflowID  model.WorkflowID
	ModuleID    model.ModuleID
	KindID      model.KindID
	ParameterID model.ParameterID
	Value       string
	Bool        bool
	Index       int
	Order       []model.ModuleID
}

type state struct {
	modules  []model.Module
	selected model.ModuleID
}

type workflow struct {
	name    string
	current state
	undo    []state
	redo    []state
}

// MemoryStore is an in-memory workflow backend. It is safe for concurrent use.
type MemoryStore struct {
	lock         sync.RWMutex
	workflows    map[model.WorkflowID]*workflow
	kinds        map[model.KindID]KindSpec
	nextModuleID model.ModuleID
	nextParamID  model.ParameterID
	calls        []Call
	failures     map[string][]error
	delays       map[string]time.Duration
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithNextIDs sets the ids given to the next inserted module and its first parameter.
func WithNextIDs(module model.ModuleID, param model.ParameterID) Option {
	return func(s *MemoryStore) {
		s.nextModuleID = module
		s.nextParamID = param
	}
}

// WithKinds registers the kinds the store knows about.
func WithKinds(kinds ...KindSpec) Option {
	return func(s *MemoryStore) {
		for _, k := range kinds {
			s.kinds[k.Kind.ID] = k
		}
	}
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		workflows:    make(map[model.WorkflowID]*workflow),
		kinds:        make(map[model.KindID]KindSpec),
		nextModuleID: 1000,
		nextParamID:  10000,
		failures:     make(map[string][]error),
		delays:       make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Seed replaces the modules of workflow wf. Modules and parameters keep their ids.
func (s *MemoryStore) Seed(wf model.WorkflowID, name string, modules ...model.Module) {
	s.lock.Lock()
	defer s.lock.Unlock()

	w := &workflow{name: name, current: state{modules: copyModules(modules)}}
	s.workflows[wf] = w

	for _, m := range modules {
		if m.ID >= s.nextModuleID {
			s.nextModuleID = m.ID + 1
		}

		for _, p := range m.Parameters {
			if p.ID >= s.nextParamID {
				s.nextParamID = p.ID + 1
			}
		}
	}
}

// FailNext makes the next call to op return err. Failures queue up in order.
func (s *MemoryStore) FailNext(op string, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.failures[op] = append(s.failures[op], err)
}

// Delay makes every call to op wait for d, or until its context is done.
func (s *MemoryStore) Delay(op string, d time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.delays[op] = d
}

// Calls returns the calls received so far, in order.
func (s *MemoryStore) Calls() []Call {
	s.lock.RLock()
	defer s.lock.RUnlock()

	calls := make([]Call, len(s.calls))
	copy(calls, s.calls)

	return calls
}

// Ops returns the operations of the calls received so far, in order.
func (s *MemoryStore) Ops() []string {
	var ops []string
	for _, c := range s.Calls() {
		ops = append(ops, c.Op)
	}

	return ops
}

// State returns the current pipeline of wf without recording a call.
func (s *MemoryStore) State(wf model.WorkflowID) (*model.Pipeline, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.pipeline(wf)
}

// ParameterValue returns the stored value of parameter id.
func (s *MemoryStore) ParameterValue(id model.ParameterID) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, w := range s.workflows {
		if p := findParameter(w.current.modules, id); p != nil {
			return p.Value, nil
		}
	}

	return "", errors.Wrapf(model.ErrParameterNotFound, "parameter %d", id)
}

func (s *MemoryStore) Snapshot(ctx context.Context, wf model.WorkflowID) (*model.Pipeline, error) {
	err := s.begin(ctx, Call{Op: OpSnapshot, WorkflowID: wf})
	if err != nil {
		return nil, err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.pipeline(wf)
}

func (s *MemoryStore) InsertModule(ctx context.Context, wf model.WorkflowID, kindID model.KindID, index int) (*model.Module, error) {
	err := s.begin(ctx, Call{Op: OpInsertModule, WorkflowID: wf, KindID: kindID, Index: index})
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.workflow(wf)
	if err != nil {
		return nil, err
	}

	spec, ok := s.kinds[kindID]
	if !ok {
		return nil, errors.Wrapf(model.ErrKindNotFound, "kind %d", kindID)
	}

	if index < 0 || index > len(w.current.modules) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}

	mod := model.Module{ID: s.nextModuleID, KindID: kindID}
	s.nextModuleID++

	for _, ps := range spec.Params {
		mod.Parameters = append(mod.Parameters, model.Parameter{ID: s.nextParamID, Key: ps.Key, Value: ps.Default})
		s.nextParamID++
	}

	w.push()

	modules := make([]model.Module, 0, len(w.current.modules)+1)
	modules = append(modules, w.current.modules[:index]...)
	modules = append(modules, mod)
	modules = append(modules, w.current.modules[index:]...)
	w.current.modules = modules

	res := copyModules([]model.Module{mod})[0]

	return &res, nil
}

func (s *MemoryStore) UpdateParameter(ctx context.Context, id model.ParameterID, value model.Value) error {
	err := s.begin(ctx, Call{Op: OpUpdateParameter, ParameterID: id, Value: value.String(), Bool: value.IsBool()})
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for _, w := range s.workflows {
		if findParameter(w.current.modules, id) == nil {
			continue
		}

		w.push()
		findParameter(w.current.modules, id).Value = value.String()

		return nil
	}

	return errors.Wrapf(model.ErrParameterNotFound, "parameter %d", id)
}

func (s *MemoryStore) SelectModule(ctx context.Context, wf model.WorkflowID, id model.ModuleID) error {
	err := s.begin(ctx, Call{Op: OpSelectModule, WorkflowID: wf, ModuleID: id})
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.workflow(wf)
	if err != nil {
		return err
	}

	if indexOf(w.current.modules, id) < 0 {
		return errors.Wrapf(model.ErrModuleNotFound, "module %d", id)
	}

	w.current.selected = id

	return nil
}

func (s *MemoryStore) DeleteModule(ctx context.Context, wf model.WorkflowID, id model.ModuleID) error {
	err := s.begin(ctx, Call{Op: OpDeleteModule, WorkflowID: wf, ModuleID: id})
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.workflow(wf)
	if err != nil {
		return err
	}

	idx := indexOf(w.current.modules, id)
	if idx < 0 {
		return errors.Wrapf(model.ErrModuleNotFound, "module %d", id)
	}

	w.push()

	modules := make([]model.Module, 0, len(w.current.modules)-1)
	modules = append(modules, w.current.modules[:idx]...)
	modules = append(modules, w.current.modules[idx+1:]...)
	w.current.modules = modules

	if w.current.selected == id {
		w.current.selected = 0
	}

	return nil
}

func (s *MemoryStore) ReorderModules(ctx context.Context, wf model.WorkflowID, order []model.ModuleID) error {
	err := s.begin(ctx, Call{Op: OpReorderModules, WorkflowID: wf, Order: append([]model.ModuleID(nil), order...)})
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.workflow(wf)
	if err != nil {
		return err
	}

	if len(order) != len(w.current.modules) {
		return ErrInvalidOrder
	}

	modules := make([]model.Module, 0, len(order))
	seen := make(map[model.ModuleID]struct{}, len(order))

	for _, id := range order {
		idx := indexOf(w.current.modules, id)
		if _, dup := seen[id]; dup || idx < 0 {
			return ErrInvalidOrder
		}

		seen[id] = struct{}{}
		modules = append(modules, w.current.modules[idx])
	}

	w.push()
	w.current.modules = modules

	return nil
}

func (s *MemoryStore) Undo(ctx context.Context, wf model.WorkflowID) error {
	err := s.begin(ctx, Call{Op: OpUndo, WorkflowID: wf})
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.workflow(wf)
	if err != nil {
		return err
	}

	if len(w.undo) == 0 {
		return ErrNothingToUndo
	}

	w.redo = append(w.redo, w.current.clone())
	w.current = w.undo[len(w.undo)-1]
	w.undo = w.undo[:len(w.undo)-1]

	return nil
}

func (s *MemoryStore) Redo(ctx context.Context, wf model.WorkflowID) error {
	err := s.begin(ctx, Call{Op: OpRedo, WorkflowID: wf})
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.workflow(wf)
	if err != nil {
		return err
	}

	if len(w.redo) == 0 {
		return ErrNothingToRedo
	}

	w.undo = append(w.undo, w.current.clone())
	w.current = w.redo[len(w.redo)-1]
	w.redo = w.redo[:len(w.redo)-1]

	return nil
}

// begin records the call, waits for its delay and returns its injected failure.
func (s *MemoryStore) begin(ctx context.Context, call Call) error {
	s.lock.Lock()
	s.calls = append(s.calls, call)
	delay := s.delays[call.Op]

	var err error
	if queued := s.failures[call.Op]; len(queued) > 0 {
		err = queued[0]
		s.failures[call.Op] = queued[1:]
	}
	s.lock.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}

func (s *MemoryStore) workflow(wf model.WorkflowID) (*workflow, error) {
	w, ok := s.workflows[wf]
	if !ok {
		return nil, errors.Wrapf(ErrWorkflowNotFound, "workflow %d", wf)
	}

	return w, nil
}

func (s *MemoryStore) pipeline(wf model.WorkflowID) (*model.Pipeline, error) {
	w, err := s.workflow(wf)
	if err != nil {
		return nil, err
	}

	kinds := make(map[model.KindID]model.ModuleKind, len(s.kinds))
	for id, spec := range s.kinds {
		kinds[id] = spec.Kind
	}

	return &model.Pipeline{
		WorkflowID:       wf,
		Name:             w.name,
		Modules:          copyModules(w.current.modules),
		Kinds:            kinds,
		SelectedModuleID: w.current.selected,
	}, nil
}

// push saves the current state before a mutation and forgets what could be redone.
func (w *workflow) push() {
	w.undo = append(w.undo, w.current.clone())
	w.redo = nil
}

func (st state) clone() state {
	return state{modules: copyModules(st.modules), selected: st.selected}
}

func copyModules(modules []model.Module) []model.Module {
	res := make([]model.Module, len(modules))
	for i, m := range modules {
		res[i] = m
		res[i].Parameters = append([]model.Parameter(nil), m.Parameters...)
	}

	return res
}

func indexOf(modules []model.Module, id model.ModuleID) int {
	for i := range modules {
		if modules[i].ID == id {
			return i
		}
	}

	return -1
}

func findParameter(modules []model.Module, id model.ParameterID) *model.Parameter {
	for i := range modules {
		for j := range modules[i].Parameters {
			if modules[i].Parameters[j].ID == id {
				return &modules[i].Parameters[j]
			}
		}
	}

	return nil
}

var _ model.Backend = (*MemoryStore)(nil)
