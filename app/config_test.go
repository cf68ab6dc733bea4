package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-cost-estimator/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "DATA_DIR", "SQLITE_PATH", "CURRENCY_SYMBOL", "WATCH_DATA_FILES", "S3_PATH_STYLE"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, db.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, "₹", cfg.CurrencySymbol)
	assert.False(t, cfg.WatchDataFiles)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DATA_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/lab.db")
	t.Setenv("WATCH_DATA_FILES", "true")
	t.Setenv("S3_PATH_STYLE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, db.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/lab.db", cfg.Store.SQLitePath)
	assert.True(t, cfg.WatchDataFiles)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("S3_PATH_STYLE", "")
	t.Setenv("WATCH_DATA_FILES", "")
	t.Setenv("DATA_BACKEND", "mongo")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unknown DATA_BACKEND")

	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("WATCH_DATA_FILES", "sometimes")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "WATCH_DATA_FILES")
}
