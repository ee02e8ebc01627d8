package workbench

import (
	"context"

	"github.com/pkg/errors"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// Request names of the commands sent by Client.
const (
	RequestDeleteModule   = "delete-module"
	RequestReorderModules = "reorder-modules"
	RequestUndo           = "undo"
	RequestRedo           = "redo"
)

// Client is the entry point of the editor: every mutating call it makes, edit intents
// included, shares one serializer.
type Client struct {
	*Mutator
	backend    model.Backend
	serializer *Serializer
}

// NewClient creates a client sending requests to backend through serializer.
func NewClient(backend model.Backend, serializer *Serializer, opts ...MutatorOption) (*Client, error) {
	mutator, err := NewMutator(backend, serializer, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create mutator")
	}

	return &Client{
		Mutator:    mutator,
		backend:    backend,
		serializer: serializer,
	}, nil
}

// Snapshot reads the current state of a workflow. Reads are not serialized.
func (c *Client) Snapshot(ctx context.Context, workflowID model.WorkflowID) (*model.Pipeline, error) {
	return c.backend.Snapshot(ctx, workflowID)
}

// DeleteModule removes a module.
func (c *Client) DeleteModule(ctx context.Context, workflowID model.WorkflowID, moduleID model.ModuleID) error {
	return c.command(ctx, model.RequestInfo{Name: RequestDeleteModule, ModuleID: moduleID}, func(ctx context.Context) error {
		return c.backend.DeleteModule(ctx, workflowID, moduleID)
	})
}

// ReorderModules sets the module order of a workflow.
func (c *Client) ReorderModules(ctx context.Context, workflowID model.WorkflowID, moduleIDs []model.ModuleID) error {
	ids := append([]model.ModuleID(nil), moduleIDs...)

	return c.command(ctx, model.RequestInfo{Name: RequestReorderModules}, func(ctx context.Context) error {
		return c.backend.ReorderModules(ctx, workflowID, ids)
	})
}

// Undo asks the server to revert the latest command.
func (c *Client) Undo(ctx context.Context, workflowID model.WorkflowID) error {
	return c.command(ctx, model.RequestInfo{Name: RequestUndo}, func(ctx context.Context) error {
		return c.backend.Undo(ctx, workflowID)
	})
}

// Redo asks the server to re-apply the latest undone command.
func (c *Client) Redo(ctx context.Context, workflowID model.WorkflowID) error {
	return c.command(ctx, model.RequestInfo{Name: RequestRedo}, func(ctx context.Context) error {
		return c.backend.Redo(ctx, workflowID)
	})
}

// Drain waits for every request sent so far, including the requests edit intents
// have yet to enqueue.
func (c *Client) Drain(ctx context.Context) error {
	return c.Mutator.Drain(ctx)
}

// command sends a request once every earlier request is done. Like edit intents, a
// command cannot be cancelled once submitted.
func (c *Client) command(ctx context.Context, req model.RequestInfo, fn func(context.Context) error) error {
	_, err := Enqueue(context.WithoutCancel(ctx), c.serializer, req, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}).Wait(ctx)

	return err
}
