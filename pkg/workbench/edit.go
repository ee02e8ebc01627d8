package workbench

import "github.com/carlosphillips/cjworkbench/pkg/workbench/model"

// Module kinds and parameters the built-in edits fold into.
const (
	RenameKindKey     = "rename-columns"
	RenameParamKey    = "rename-entries"
	DisplayAllKey     = "display-all"
	CellEditKindKey   = "editcells"
	CellEditsParamKey = "celledits"
)

// Edit is a pending user intent folded into the merge-bearing parameter of a module kind.
type Edit interface {
	// KindKey is the kind of module storing the edit.
	KindKey() string
	// ParamKey is the parameter of that module holding the merged edits.
	ParamKey() string
	// Merge folds the edit into the stored value and reports how the stored value was read.
	Merge(existing string) (string, DecodeStatus, error)
}

// ParamValue is a parameter value set on a module.
type ParamValue struct {
	Key   string
	Value model.Value
}

// Initializer is implemented by edits whose module kind needs extra parameter values when
// the module is created for them. They are applied before the merged edit.
type Initializer interface {
	InitialValues() []ParamValue
}

// Rename renames the column PrevName, as currently shown in the table, to NewName.
type Rename struct {
	PrevName string
	NewName  string
}

func (Rename) KindKey() string  { return RenameKindKey }
func (Rename) ParamKey() string { return RenameParamKey }

func (r Rename) Merge(existing string) (string, DecodeStatus, error) {
	return mergeRenames(existing, r.PrevName, r.NewName)
}

// InitialValues keeps a new rename module from listing every column.
func (Rename) InitialValues() []ParamValue {
	return []ParamValue{{Key: DisplayAllKey, Value: model.BoolValue(false)}}
}

// CellEdit sets the cell at Row, Col to Value.
type CellEdit struct {
	Row   int    `json:"row"`
	Col   string `json:"col"`
	Value string `json:"value"`
}

func (CellEdit) KindKey() string  { return CellEditKindKey }
func (CellEdit) ParamKey() string { return CellEditsParamKey }

func (c CellEdit) Merge(existing string) (string, DecodeStatus, error) {
	return mergeCellEdits(existing, c)
}

var (
	_ Edit        = Rename{}
	_ Initializer = Rename{}
	_ Edit        = CellEdit{}
)
