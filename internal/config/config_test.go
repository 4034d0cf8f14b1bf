package config

import (
	"os"
	"path/filepath"
	"testing"

	"steward/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "steward", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "steward", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_ParsesToml(t *testing.T) {
	path := writeConfig(t, `
name = "api"
port = 9090
log_level = "debug"
log_format = "json"

[database]
driver = "postgres"
host = "db.internal"
port = 5432
user = "steward"
password = "secret"
name = "steward"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_InvalidToml(t *testing.T) {
	path := writeConfig(t, `name = [broken`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigParse))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STEWARD_DB_PASSWORD", "from-env")
	t.Setenv("STEWARD_DB_HOST", "env-host")

	path := writeConfig(t, `
name = "api"
port = 8080

[database]
driver = "postgres"
host = "file-host"
name = "steward"
password = "from-file"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-host", cfg.Database.Host)
}

func TestValidate_EmptyName(t *testing.T) {
	cfg := Default()
	cfg.Name = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigValidation))
}

func TestValidate_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		cfg := Default()
		cfg.Port = port

		err := cfg.Validate()
		require.Error(t, err, "port %d should be rejected", port)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidPort))
	}

	for _, port := range []int{1, 8080, 65535} {
		cfg := Default()
		cfg.Port = port
		assert.NoError(t, cfg.Validate(), "port %d should be accepted", port)
	}
}

func TestValidate_UnsupportedDriver(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "oracle"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigValidation))
}

func TestValidate_PostgresRequiresHostAndName(t *testing.T) {
	cfg := Default()
	cfg.Database = DatabaseConfig{Driver: "postgres"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigValidation))
}
