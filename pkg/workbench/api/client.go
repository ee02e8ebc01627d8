package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/carlosphillips/cjworkbench/internal/log"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

const (
	csrfHeader      = "X-CSRFToken"
	requestIDHeader = "X-Request-Id"
	sessionCookie   = "sessionid"
	catalogueKey    = "modules"

	defaultTimeout = 30 * time.Second
)

// Client talks to a workbench server. It does not order its calls: mutations must go
// through a workbench.Serializer.
type Client struct {
	url       *url.URL
	http      *http.Client
	csrfToken string
	sessionID string
	timeout   time.Duration

	catalogueTTL time.Duration
	catalogue    *ristretto.Cache
}

// NewClient creates a client for the server at serverURL.
func NewClient(serverURL string, opts ...ClientOption) (*Client, error) {
	if serverURL == "" {
		return nil, ErrURLMustBeSet
	}

	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid server url %s", serverURL)
	}

	c := &Client{
		url:     u,
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.catalogueTTL > 0 {
		c.catalogue, err = ristretto.NewCache(&ristretto.Config{
			NumCounters:        100,
			MaxCost:            10,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "unable to create module catalogue cache")
		}
	}

	return c, nil
}

// Close releases the module catalogue cache.
func (c *Client) Close() {
	if c.catalogue != nil {
		c.catalogue.Close()
	}
}

// Snapshot reads the workflow and the module catalogue at the same time.
func (c *Client) Snapshot(ctx context.Context, workflowID model.WorkflowID) (*model.Pipeline, error) {
	var (
		wf    *workflowDTO
		kinds *[]moduleDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wf, err = do[workflowDTO](gctx, c, http.MethodGet, fmt.Sprintf("/api/workflows/%d", workflowID), nil)

		return err
	})
	g.Go(func() error {
		var err error
		kinds, err = c.modules(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "unable to read workflow %d", workflowID)
	}

	if wf == nil || kinds == nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "empty snapshot of workflow %d", workflowID)
	}

	return wf.toModel(*kinds), nil
}

// modules returns the module catalogue, from the cache when it is enabled.
func (c *Client) modules(ctx context.Context) (*[]moduleDTO, error) {
	if c.catalogue != nil {
		if cached, ok := c.catalogue.Get(catalogueKey); ok {
			if kinds, ok := cached.(*[]moduleDTO); ok {
				return kinds, nil
			}
		}
	}

	kinds, err := do[[]moduleDTO](ctx, c, http.MethodGet, "/api/modules/", nil)
	if err != nil {
		return nil, err
	}

	if c.catalogue != nil && kinds != nil {
		c.catalogue.SetWithTTL(catalogueKey, kinds, 1, c.catalogueTTL)
		c.catalogue.Wait()
	}

	return kinds, nil
}

func (c *Client) InsertModule(ctx context.Context, workflowID model.WorkflowID, kindID model.KindID, index int) (*model.Module, error) {
	res, err := do[addModuleResponse](ctx, c, http.MethodPost, fmt.Sprintf("/api/workflows/%d/modules", workflowID), addModuleRequest{
		Position: index,
		ModuleID: kindID,
		Values:   map[string]string{},
	})
	if err != nil {
		return nil, err
	}

	if res == nil || res.WfModule == nil {
		return nil, errors.Wrap(ErrMalformedResponse, "insert response has no module")
	}

	mod := res.WfModule.toModel()

	return &mod, nil
}

func (c *Client) UpdateParameter(ctx context.Context, parameterID model.ParameterID, value model.Value) error {
	return send(ctx, c, http.MethodPatch, fmt.Sprintf("/api/parameters/%d", parameterID), parameterRequest{Value: value})
}

func (c *Client) SelectModule(ctx context.Context, workflowID model.WorkflowID, moduleID model.ModuleID) error {
	return send(ctx, c, http.MethodPut, fmt.Sprintf("/api/workflows/%d/selection", workflowID), selectionRequest{WfModuleID: moduleID})
}

func (c *Client) DeleteModule(ctx context.Context, workflowID model.WorkflowID, moduleID model.ModuleID) error {
	return send(ctx, c, http.MethodDelete, fmt.Sprintf("/api/workflows/%d/wfmodules/%d", workflowID, moduleID), nil)
}

func (c *Client) ReorderModules(ctx context.Context, workflowID model.WorkflowID, moduleIDs []model.ModuleID) error {
	return send(ctx, c, http.MethodPatch, fmt.Sprintf("/api/workflows/%d/modules", workflowID), reorderRequest{WfModuleIDs: moduleIDs})
}

func (c *Client) Undo(ctx context.Context, workflowID model.WorkflowID) error {
	return send(ctx, c, http.MethodPost, fmt.Sprintf("/api/workflows/%d/undo", workflowID), nil)
}

func (c *Client) Redo(ctx context.Context, workflowID model.WorkflowID) error {
	return send(ctx, c, http.MethodPost, fmt.Sprintf("/api/workflows/%d/redo", workflowID), nil)
}

// send performs a call whose response body, if any, is ignored.
func send(ctx context.Context, c *Client, method, endpoint string, body any) error {
	_, err := do[json.RawMessage](ctx, c, method, endpoint, body)

	return err
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var payload io.Reader = http.NoBody

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode request body")
		}

		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url.JoinPath(endpoint).String(), payload)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create request")
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.csrfToken != "" {
		req.Header.Set(csrfHeader, c.csrfToken)
	}

	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.sessionID})
	}

	reqID := uuid.NewString()
	if info, ok := model.RequestFromContext(ctx); ok && info.ID != "" {
		reqID = info.ID
	}

	req.Header.Set(requestIDHeader, reqID)

	return req, nil
}

// do performs a call and decodes its JSON response. A 204 response yields nil.
func do[T any](ctx context.Context, c *Client, method, endpoint string, body any) (*T, error) {
	logger := log.SubLogger(log.FromContext(ctx), "api")

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "%s %s", method, endpoint)
		}

		return nil, errors.Wrapf(ErrUnreachable, "%s %s: %v", method, endpoint, err)
	}
	defer resp.Body.Close()

	logger.Debug("response", "method", method, "path", endpoint, "status", resp.StatusCode,
		"elapsed", time.Since(start), "request_id", req.Header.Get(requestIDHeader))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s: unable to read response", method, endpoint)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Method: method, Path: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return nil, errors.Wrapf(ErrMalformedResponse, "%s %s: content type %q is not JSON", method, endpoint, ct)
		}
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "%s %s: %v", method, endpoint, err)
	}

	return &result, nil
}

var _ model.Backend = (*Client)(nil)
