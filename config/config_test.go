package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(flag.NewFlagSet("test", flag.ContinueOnError), nil, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, defaultServerAddress, cfg.ServerAddr)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, defaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, "none", cfg.EventsBroker)
	assert.False(t, cfg.DispatchOnAssign)
}

func TestLoad_EnvOverridesFlags(t *testing.T) {
	args := []string{"-a", ":9000", "-l", "info"}
	env := envFrom(map[string]string{
		"RUN_ADDRESS":        ":9999",
		"STORAGE":            "postgres",
		"DATABASE_URI":       "postgres://localhost/gofood",
		"TOKEN_TTL":          "1h",
		"DISPATCH_ON_ASSIGN": "true",
	})

	cfg, err := load(flag.NewFlagSet("test", flag.ContinueOnError), args, env)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.DispatchOnAssign)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gofood.yaml")
	content := "run_address: \":7070\"\nstorage: mongo\nmongo_db: food\nlog_level: warn\nevents_broker: nats\ntoken_ttl: 2h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// explicit flag wins over the file
	args := []string{"-c", path, "-l", "error"}
	cfg, err := load(flag.NewFlagSet("test", flag.ContinueOnError), args, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ServerAddr)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "food", cfg.MongoDB)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "nats", cfg.EventsBroker)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres_without_dsn", env: map[string]string{"STORAGE": "postgres"}},
		{name: "unknown_storage", env: map[string]string{"STORAGE": "redis"}},
		{name: "unknown_broker", env: map[string]string{"EVENTS_BROKER": "kafka"}},
		{name: "bad_ttl", env: map[string]string{"TOKEN_TTL": "soon"}},
		{name: "bad_bool", env: map[string]string{"DISPATCH_ON_ASSIGN": "maybe"}},
		{name: "admin_without_password", env: map[string]string{"ADMIN_NAME": "root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(flag.NewFlagSet("test", flag.ContinueOnError), nil, envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestNewClient(t *testing.T) {
	cfg, err := NewClient(envFrom(map[string]string{
		"GOFOOD_SERVER":      "http://api:8080",
		"CART_POLICY":        "increment",
		"POLL_LIST_INTERVAL": "2s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://api:8080", cfg.ServerURL)
	assert.Equal(t, "increment", cfg.CartPolicy)
	assert.Equal(t, 2*time.Second, cfg.ListInterval)
	assert.Equal(t, defaultDetailInterval, cfg.DetailInterval)

	_, err = NewClient(envFrom(map[string]string{"POLL_DETAIL_INTERVAL": "0s"}))
	assert.Error(t, err)
}
