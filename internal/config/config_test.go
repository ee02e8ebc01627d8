package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosphillips/cjworkbench/internal/config"
)

func TestLoadWith(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		env      map[string]string
		expected *config.Config
		wantErr  bool
	}{
		"defaults": {
			env: map[string]string{"WORKBENCH_URL": "http://localhost:8000"},
			expected: &config.Config{
				URL:          "http://localhost:8000",
				Timeout:      30 * time.Second,
				LogLevel:     "info",
				CatalogueTTL: time.Minute,
			},
		},
		"everything set": {
			env: map[string]string{
				"WORKBENCH_URL":           "https://workbench.example.com",
				"WORKBENCH_CSRF_TOKEN":    "csrf",
				"WORKBENCH_SESSION_ID":    "session",
				"WORKBENCH_TIMEOUT":       "5s",
				"WORKBENCH_LOG_LEVEL":     "debug",
				"WORKBENCH_CATALOGUE_TTL": "0s",
			},
			expected: &config.Config{
				URL:       "https://workbench.example.com",
				CSRFToken: "csrf",
				SessionID: "session",
				Timeout:   5 * time.Second,
				LogLevel:  "debug",
			},
		},
		"missing url": {
			env:     map[string]string{},
			wantErr: true,
		},
		"bad timeout": {
			env:     map[string]string{"WORKBENCH_URL": "http://localhost", "WORKBENCH_TIMEOUT": "soon"},
			wantErr: true,
		},
		"negative timeout": {
			env:     map[string]string{"WORKBENCH_URL": "http://localhost", "WORKBENCH_TIMEOUT": "-1s"},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(tc.env))
			if tc.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}
