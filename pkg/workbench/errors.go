package workbench

import (
	"github.com/pkg/errors"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

var (
	ErrSerializerMustBeSet = errors.New("serializer must be set")
	ErrBackendMustBeSet    = errors.New("backend must be set")
	ErrPipelineMustBeSet   = errors.New("pipeline must be set")
	ErrEditMustBeSet       = errors.New("edit must be set")
	ErrUnitPanicked        = errors.New("request panicked")

	// Lookup errors, re-exported from model.
	ErrModuleNotFound    = model.ErrModuleNotFound
	ErrKindNotFound      = model.ErrKindNotFound
	ErrParameterNotFound = model.ErrParameterNotFound
)
