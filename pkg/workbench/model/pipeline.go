package model

import (
	"github.com/pkg/errors"
)

// Identifiers assigned by the server.
type (
	WorkflowID  int64
	ModuleID    int64
	KindID      int64
	ParameterID int64
)

var (
	ErrModuleNotFound    = errors.New("module not found")
	ErrKindNotFound      = errors.New("module kind not found")
	ErrParameterNotFound = errors.New("parameter not found")
)

// ModuleKind is a named, versioned module template.
type ModuleKind struct {
	ID      KindID `yaml:"id"`
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

// Parameter is a named configuration slot on a module.
type Parameter struct {
	ID    ParameterID `yaml:"id"`
	Key   string      `yaml:"key"`
	Value string      `yaml:"value"`
}

// Module is one step of a pipeline.
type Module struct {
	ID         ModuleID    `yaml:"id"`
	KindID     KindID      `yaml:"kind_id"`
	Parameters []Parameter `yaml:"parameters,omitempty"`
	Notes      string      `yaml:"notes,omitempty"`
	Collapsed  bool        `yaml:"collapsed,omitempty"`
}

// Parameter returns the parameter with the given key.
func (m *Module) Parameter(key string) (*Parameter, error) {
	for i := range m.Parameters {
		if m.Parameters[i].Key == key {
			return &m.Parameters[i], nil
		}
	}

	return nil, errors.Wrapf(ErrParameterNotFound, "module %d has no parameter %q", m.ID, key)
}

// Pipeline is a read-only snapshot of a workflow: its ordered modules and the
// directory of module kinds they reference. Position is the index in Modules.
type Pipeline struct {
	WorkflowID       WorkflowID            `yaml:"workflow_id"`
	Name             string                `yaml:"name,omitempty"`
	Modules          []Module              `yaml:"modules"`
	Kinds            map[KindID]ModuleKind `yaml:"kinds"`
	SelectedModuleID ModuleID              `yaml:"selected_module_id,omitempty"`
}

// IndexOf returns the position of a module in the pipeline.
func (p *Pipeline) IndexOf(id ModuleID) (int, error) {
	for i := range p.Modules {
		if p.Modules[i].ID == id {
			return i, nil
		}
	}

	return -1, errors.Wrapf(ErrModuleNotFound, "module %d in workflow %d", id, p.WorkflowID)
}

// Module returns the module with the given id.
func (p *Pipeline) Module(id ModuleID) (*Module, error) {
	idx, err := p.IndexOf(id)
	if err != nil {
		return nil, err
	}

	return &p.Modules[idx], nil
}

// KindKey returns the key of a module's kind, or "" when the kind is not loaded.
func (p *Pipeline) KindKey(m *Module) string {
	kind, ok := p.Kinds[m.KindID]
	if !ok {
		return ""
	}

	return kind.Key
}

// KindID resolves a module kind key to its numeric id.
func (p *Pipeline) KindID(key string) (KindID, error) {
	for id, kind := range p.Kinds {
		if kind.Key == key {
			return id, nil
		}
	}

	return 0, errors.Wrapf(ErrKindNotFound, "kind %q", key)
}
