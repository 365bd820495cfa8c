package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashit/internal/log"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configDirEnv, t.TempDir())

	cfg, dotEnv, err := Load()
	require.NoError(t, err)
	assert.False(t, dotEnv)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, "users.json", cfg.Storage.DataFile)
	assert.Equal(t, "cashit.db", cfg.Storage.SQLitePath)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, log.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "users.json", cfg.Storage.Location())
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnv, dir)
	content := "CASHIT_STORAGE_DRIVER=sqlite\nCASHIT_SQLITE_PATH=/tmp/bank.db\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	// godotenv 不覆寫既有變數；t.Setenv 會在測試結束時還原。
	for _, k := range []string{"CASHIT_STORAGE_DRIVER", "CASHIT_SQLITE_PATH", "LOG_LEVEL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, dotEnv, err := Load()
	require.NoError(t, err)
	assert.True(t, dotEnv)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/bank.db", cfg.Storage.SQLitePath)
	assert.Equal(t, log.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "/tmp/bank.db", cfg.Storage.Location())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv(configDirEnv, t.TempDir())
	t.Setenv("CASHIT_STORAGE_DRIVER", "postgres")

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
