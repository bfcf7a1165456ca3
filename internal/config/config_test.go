package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VBMETRICS_DB", "")
	t.Setenv("VBMETRICS_WORKERS", "")
	t.Setenv("VBMETRICS_LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, "metrics.db", filepath.Base(cfg.DBPath))
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("VBMETRICS_DB", "/tmp/volley.db")
	t.Setenv("VBMETRICS_WORKERS", "8")
	t.Setenv("VBMETRICS_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "/tmp/volley.db", cfg.DBPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_UnparsableWorkersFallsBack(t *testing.T) {
	t.Setenv("VBMETRICS_WORKERS", "many")

	cfg := Load()

	assert.Equal(t, 4, cfg.Workers)
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"no db", Config{DBPath: "", Workers: 1, LogLevel: "info"}},
		{"zero workers", Config{DBPath: "x.db", Workers: 0, LogLevel: "info"}},
		{"too many workers", Config{DBPath: "x.db", Workers: 65, LogLevel: "info"}},
		{"bad level", Config{DBPath: "x.db", Workers: 2, LogLevel: "trace"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}
