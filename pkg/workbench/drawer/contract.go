package drawer

import (
	"io"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/measure"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline snapshot.
type Drawer interface {
	// AddModule adds a module to the drawing, after the modules already added.
	AddModule(m *model.Module, kindKey string) error
	// AddLink adds a link from a module to the module consuming its output.
	AddLink(from, to model.ModuleID) error
	// Select highlights the selected module.
	Select(id model.ModuleID) error
	// AddMeasure adds the request latencies of each module.
	AddMeasure(msr measure.Measure) error
	// Draw writes the DOT graph.
	Draw(w io.Writer) error
}
