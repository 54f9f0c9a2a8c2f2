package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const minimalConfig = `
[database]
host = "localhost"
user = "postgres"
password = "secret"
dbname = "salon"

[catalog_service]
url = "http://catalog:8080"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30, cfg.Scheduler.HorizonDays)
	assert.Equal(t, 4, cfg.Scheduler.Workers)
	assert.Equal(t, "0 3 * * *", cfg.Scheduler.Cron)
	assert.Equal(t, 5, cfg.CatalogService.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_InvalidEnvInteger(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load(writeConfig(t, minimalConfig))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "horizon", mutate: func(c *Config) { c.Scheduler.HorizonDays = -1 }},
		{name: "workers", mutate: func(c *Config) { c.Scheduler.Workers = -2 }},
		{name: "port", mutate: func(c *Config) { c.Server.HTTPPort = 70000 }},
		{name: "catalog url", mutate: func(c *Config) { c.CatalogService.URL = "" }},
		{name: "db host", mutate: func(c *Config) { c.Database.Host = "" }},
		{name: "timezone", mutate: func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database:       DatabaseConfig{Host: "localhost", DBName: "salon"},
				CatalogService: CatalogServiceConfig{URL: "http://catalog"},
			}
			cfg.applyDefaults()
			tt.mutate(cfg)

			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSchedulerLocation(t *testing.T) {
	loc, err := SchedulerConfig{Timezone: "Pacific/Kiritimati"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Pacific/Kiritimati", loc.String())

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	loc, err = cfg.Scheduler.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = SchedulerConfig{Timezone: "Nowhere/Town"}.Location()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=db sslmode=disable", d.DSN())
}
