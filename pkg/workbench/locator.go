package workbench

import (
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// Barrier reports whether the search for an existing module must stop at m.
// kindKey is the key of m's kind.
type Barrier func(m *model.Module, kindKey string) bool

// BarrierKinds returns a barrier stopping at any module of the given kinds.
func BarrierKinds(kindKeys ...string) Barrier {
	set := make(map[string]struct{}, len(kindKeys))
	for _, k := range kindKeys {
		set[k] = struct{}{}
	}

	return func(_ *model.Module, kindKey string) bool {
		_, ok := set[kindKey]

		return ok
	}
}

// Location is where an edit lands: an existing module, or the index a new module
// must be inserted at.
type Location struct {
	// Module points into the snapshot given to Locate and must not be modified.
	Module         *model.Module
	InsertionIndex int
}

type locator struct {
	barrier Barrier
}

// Locate finds the module of kind kindKey an edit made on module from should fold into.
//
// The search starts at from itself and walks downstream; the first module of kindKey
// wins. A barrier, when set, is checked on every non-matching module after from and
// ends the search. Without a match, InsertionIndex is the position right after from.
// An empty pipeline yields InsertionIndex 0. A from missing in a non-empty pipeline is
// an ErrModuleNotFound.
func Locate(p *model.Pipeline, from model.ModuleID, kindKey string, opts ...LocateOption) (Location, error) {
	if p == nil {
		return Location{}, ErrPipelineMustBeSet
	}

	if len(p.Modules) == 0 {
		return Location{InsertionIndex: 0}, nil
	}

	l := &locator{}
	for _, opt := range opts {
		opt(l)
	}

	fromIdx, err := p.IndexOf(from)
	if err != nil {
		return Location{}, err
	}

	for i := fromIdx; i < len(p.Modules); i++ {
		m := &p.Modules[i]
		key := p.KindKey(m)

		if key != "" && key == kindKey {
			return Location{Module: m, InsertionIndex: i}, nil
		}

		if i > fromIdx && l.barrier != nil && l.barrier(m, key) {
			break
		}
	}

	return Location{InsertionIndex: fromIdx + 1}, nil
}
