package workbench

import (
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

type SerializerOption func(s *Serializer)

// SerializerHooks registers hooks observing every request of the serializer.
func SerializerHooks(opts ...model.RequestOption) SerializerOption {
	return func(s *Serializer) {
		s.opts = append(s.opts, opts...)
	}
}

type MutatorOption func(m *Mutator)

// MutatorLocateOptions sets the options used to find the module an edit folds into.
func MutatorLocateOptions(opts ...LocateOption) MutatorOption {
	return func(m *Mutator) {
		m.locateOpts = append(m.locateOpts, opts...)
	}
}

type LocateOption func(l *locator)

// WithBarrier stops the search before the first downstream module for which barrier
// returns true.
func WithBarrier(barrier Barrier) LocateOption {
	return func(l *locator) {
		l.barrier = barrier
	}
}
