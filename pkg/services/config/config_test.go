package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8051, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "supermarket_sales.csv", cfg.Data.Path)
	assert.Equal(t, BackendMemory, cfg.Data.Backend)
	assert.Equal(t, "127.0.0.1:8051", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales-atlas.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 9000
  shutdown_timeout: 3s
data:
  path: /data/sales.csv
  backend: duckdb
  duckdb_path: /data/sales.db
charts:
  width: 800
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SALES_ATLAS_CHARTS_HEIGHT", "300")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/data/sales.csv", cfg.Data.Path)
	assert.Equal(t, BackendDuckDB, cfg.Data.Backend)
	assert.Equal(t, "/data/sales.db", cfg.Data.DuckDBPath)
	assert.Equal(t, 800, cfg.Charts.Width)
	assert.Equal(t, 300, cfg.Charts.Height)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be at most 65535, got 70000",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Data.Backend = "postgres" },
			wantErr: `data.backend must be one of [memory duckdb], got "postgres"`,
		},
		{
			name:    "empty data path",
			mutate:  func(c *Config) { c.Data.Path = "" },
			wantErr: "data.path is required",
		},
		{
			name:    "zero chart size",
			mutate:  func(c *Config) { c.Charts.Width = 0 },
			wantErr: "charts.width must be greater than 0",
		},
		{
			name:    "unknown chart format",
			mutate:  func(c *Config) { c.Charts.Format = "gif" },
			wantErr: "charts.format must be one of [svg png]",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log_level must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Server.Port = 0
	cfg.Data.Backend = "sqlite"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "data.backend")
}
