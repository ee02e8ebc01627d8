package api

import (
	"encoding/json"
	"strings"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

type moduleDTO struct {
	ID     model.KindID `json:"id"`
	IDName string       `json:"id_name"`
	Name   string       `json:"name"`
}

type moduleVersionDTO struct {
	Module  model.KindID `json:"module"`
	Version string       `json:"version"`
}

type parameterSpecDTO struct {
	IDName string `json:"id_name"`
}

type parameterValDTO struct {
	ID            model.ParameterID `json:"id"`
	ParameterSpec parameterSpecDTO  `json:"parameter_spec"`
	Value         json.RawMessage   `json:"value"`
}

type wfModuleDTO struct {
	ID            model.ModuleID    `json:"id"`
	ModuleVersion moduleVersionDTO  `json:"module_version"`
	Notes         string            `json:"notes"`
	IsCollapsed   bool              `json:"is_collapsed"`
	ParameterVals []parameterValDTO `json:"parameter_vals"`
}

type workflowDTO struct {
	ID               model.WorkflowID `json:"id"`
	Name             string           `json:"name"`
	SelectedWfModule *int             `json:"selected_wf_module"`
	WfModules        []wfModuleDTO    `json:"wf_modules"`
}

type addModuleRequest struct {
	Position int               `json:"position"`
	ModuleID model.KindID      `json:"moduleId"`
	Values   map[string]string `json:"values"`
}

type addModuleResponse struct {
	WfModule *wfModuleDTO `json:"wfModule"`
	Index    int          `json:"index"`
}

type parameterRequest struct {
	Value model.Value `json:"value"`
}

type selectionRequest struct {
	WfModuleID model.ModuleID `json:"wfModuleId"`
}

type reorderRequest struct {
	WfModuleIDs []model.ModuleID `json:"wf_module_ids"`
}

// paramValue turns a raw parameter value into its string form: strings are unquoted,
// null is empty and anything else keeps its JSON text.
func paramValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return trimmed
}

func (m wfModuleDTO) toModel() model.Module {
	mod := model.Module{
		ID:        m.ID,
		KindID:    m.ModuleVersion.Module,
		Notes:     m.Notes,
		Collapsed: m.IsCollapsed,
	}

	for _, pv := range m.ParameterVals {
		mod.Parameters = append(mod.Parameters, model.Parameter{
			ID:    pv.ID,
			Key:   pv.ParameterSpec.IDName,
			Value: paramValue(pv.Value),
		})
	}

	return mod
}

func (w workflowDTO) toModel(kinds []moduleDTO) *model.Pipeline {
	p := &model.Pipeline{
		WorkflowID: w.ID,
		Name:       w.Name,
		Modules:    make([]model.Module, 0, len(w.WfModules)),
		Kinds:      make(map[model.KindID]model.ModuleKind, len(kinds)),
	}

	for _, k := range kinds {
		p.Kinds[k.ID] = model.ModuleKind{ID: k.ID, Key: k.IDName, Name: k.Name}
	}

	for _, m := range w.WfModules {
		p.Modules = append(p.Modules, m.toModel())

		if kind, ok := p.Kinds[m.ModuleVersion.Module]; ok && kind.Version == "" {
			kind.Version = m.ModuleVersion.Version
			p.Kinds[kind.ID] = kind
		}
	}

	if w.SelectedWfModule != nil && *w.SelectedWfModule >= 0 && *w.SelectedWfModule < len(p.Modules) {
		p.SelectedModuleID = p.Modules[*w.SelectedWfModule].ID
	}

	return p
}
