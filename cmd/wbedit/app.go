package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"

	"github.com/carlosphillips/cjworkbench/internal/config"
	"github.com/carlosphillips/cjworkbench/internal/log"
	"github.com/carlosphillips/cjworkbench/pkg/workbench"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/api"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/measure"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// app holds what every command shares once the configuration is loaded.
type app struct {
	lookuper   envconfig.Lookuper
	newBackend func(cfg *config.Config) (model.Backend, error)

	logLevel   string
	workflowID int64

	cfg     *config.Config
	logger  *slog.Logger
	measure *measure.DefaultMeasure
	backend model.Backend
	client  *workbench.Client
}

func newApp() *app {
	return &app{
		lookuper:   envconfig.OsLookuper(),
		newBackend: newAPIBackend,
	}
}

func newAPIBackend(cfg *config.Config) (model.Backend, error) {
	return api.NewClient(cfg.URL,
		api.WithCSRFToken(cfg.CSRFToken),
		api.WithSessionID(cfg.SessionID),
		api.WithTimeout(cfg.Timeout),
		api.WithCatalogueCache(cfg.CatalogueTTL),
	)
}

// setup loads the configuration and builds the client. It returns the context the
// commands run with.
func (a *app) setup(ctx context.Context) (context.Context, error) {
	cfg, err := config.LoadWith(ctx, a.lookuper)
	if err != nil {
		return ctx, err
	}

	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}

	a.logger = slog.New(log.NewHandler(os.Stderr, "wbedit", log.ParseLevel(level)))
	ctx = log.IntoContext(ctx, a.logger)

	a.backend, err = a.newBackend(cfg)
	if err != nil {
		return ctx, errors.Wrap(err, "unable to create backend")
	}

	a.measure = measure.NewDefaultMeasure()
	serializer := workbench.NewSerializer(workbench.SerializerHooks(measure.RequestMeasure(a.measure)))

	a.client, err = workbench.NewClient(a.backend, serializer)
	if err != nil {
		return ctx, err
	}

	return ctx, nil
}

// teardown waits for queued requests and logs their latencies.
func (a *app) teardown(ctx context.Context) error {
	if a.client == nil {
		return nil
	}

	if closer, ok := a.backend.(interface{ Close() }); ok {
		defer closer.Close()
	}

	if err := a.client.Drain(ctx); err != nil {
		return err
	}

	for name, mt := range a.measure.AllMetrics() {
		a.logger.Debug("request stats", "request", name, "total", mt.Total(), "failures", mt.Failures(),
			"avg", mt.AVGDuration(), "avg_wait", mt.AVGWaitDuration())
	}

	return nil
}

func (a *app) workflow() model.WorkflowID {
	return model.WorkflowID(a.workflowID)
}
