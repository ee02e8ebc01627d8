// Package config loads the wbedit settings from the environment.
package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	URL       string        `env:"WORKBENCH_URL, required"`
	CSRFToken string        `env:"WORKBENCH_CSRF_TOKEN"`
	SessionID string        `env:"WORKBENCH_SESSION_ID"`
	Timeout   time.Duration `env:"WORKBENCH_TIMEOUT, default=30s"`
	LogLevel  string        `env:"WORKBENCH_LOG_LEVEL, default=info"`

	// CatalogueTTL is how long the module catalogue is reused between snapshots; 0 disables it.
	CatalogueTTL time.Duration `env:"WORKBENCH_CATALOGUE_TTL, default=1m"`
}

func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}

	if cfg.Timeout < 0 {
		return nil, errors.Errorf("invalid WORKBENCH_TIMEOUT %s", cfg.Timeout)
	}

	if cfg.CatalogueTTL < 0 {
		return nil, errors.Errorf("invalid WORKBENCH_CATALOGUE_TTL %s", cfg.CatalogueTTL)
	}

	return &cfg, nil
}
