package model

import (
	"context"
	"time"
)

// RequestInfo describes a unit of work handed to the serializer.
type RequestInfo struct {
	ID       string
	Name     string
	ModuleID ModuleID
}

// RequestOption defines the interface for hooks observing serialized requests.
type RequestOption interface {
	// OnEnqueue runs when the request joins the queue.
	OnEnqueue(req *RequestInfo) error
	// OnStart runs when the request leaves the queue, after waiting for its predecessors.
	OnStart(req *RequestInfo, waitDuration time.Duration) error
	// OnFinish runs once the request result is known.
	OnFinish(req *RequestInfo, runDuration time.Duration, err error) error
}

type requestKey struct{}

// ContextWithRequest attaches the request being executed to ctx.
func ContextWithRequest(ctx context.Context, req *RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the request being executed, if any.
func RequestFromContext(ctx context.Context) (*RequestInfo, bool) {
	req, ok := ctx.Value(requestKey{}).(*RequestInfo)

	return req, ok
}
