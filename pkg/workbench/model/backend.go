package model

import "context"

// Backend is the server-side collaborator that owns workflow state.
//
// Every method performs a single request. Failures are either transport failures,
// non-success statuses or malformed responses; callers treat all of them as
// "mutation failed".
type Backend interface {
	// Snapshot returns the current state of a workflow.
	Snapshot(ctx context.Context, workflowID WorkflowID) (*Pipeline, error)
	// InsertModule creates a module of the given kind at position index and returns it
	// with its initial parameters.
	InsertModule(ctx context.Context, workflowID WorkflowID, kindID KindID, index int) (*Module, error)
	// UpdateParameter replaces the value of a parameter.
	UpdateParameter(ctx context.Context, parameterID ParameterID, value Value) error
	// SelectModule marks a module as the user's current selection.
	SelectModule(ctx context.Context, workflowID WorkflowID, moduleID ModuleID) error
	// DeleteModule removes a module from its workflow.
	DeleteModule(ctx context.Context, workflowID WorkflowID, moduleID ModuleID) error
	// ReorderModules sets the module order of a workflow.
	ReorderModules(ctx context.Context, workflowID WorkflowID, moduleIDs []ModuleID) error
	// Undo reverts the latest command of a workflow.
	Undo(ctx context.Context, workflowID WorkflowID) error
	// Redo re-applies the latest undone command of a workflow.
	Redo(ctx context.Context, workflowID WorkflowID) error
}
