package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	os.Unsetenv("DB_DRIVER")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "gpt-4o-mini", cfg.MatcherModel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "orcafacil.db", filepath.Base(cfg.DBPath))
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	blob := []byte("db_driver: memory\nmatcher_model: file-model\nhttp_addr: \":9000\"\nmatcher_max_retries: 5\n")
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MATCHER_MODEL", "env-model")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, "env-model", cfg.MatcherModel)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.MatcherMaxRetries)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "mongo")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err = Load()
	require.Error(t, err)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("ORCA_TEST_BOOL", "off")
	assert.False(t, getEnvBool("ORCA_TEST_BOOL", true))
	t.Setenv("ORCA_TEST_BOOL", "garbage")
	assert.True(t, getEnvBool("ORCA_TEST_BOOL", true))
}
