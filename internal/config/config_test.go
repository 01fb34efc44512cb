package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBound(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	require.NoError(t, BindFlags(cmd, v))
	require.NoError(t, cmd.ParseFlags(args))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newBound(t))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 500, cfg.LogLimitCap)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Debug)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load(newBound(t,
		"--port", "127.0.0.1:8080",
		"--store", "SQLite",
		"--sqlite-path", "/tmp/x.db",
		"--debug",
		"--log-format", "json",
		"--cors-origins", "https://a.example,https://b.example",
	))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.SQLitePath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("TRACKER_STORE", "mongo")
	t.Setenv("TRACKER_LOG_LIMIT_CAP", "50")

	cfg, err := Load(newBound(t))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.MongoURI)
	assert.Equal(t, "exercise_tracker", cfg.Storage.MongoDatabase)
	assert.Equal(t, 50, cfg.LogLimitCap)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("TRACKER_PORT", "4000")

	cfg, err := Load(newBound(t, "--port", "5000"))
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: postgres\npostgres-dsn: postgres://u:p@localhost/db\n"), 0o600))

	cfg, err := Load(newBound(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Storage.PostgresDSN)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown store", []string{"--store", "redis"}, `unknown store "redis"`},
		{"postgres without dsn", []string{"--store", "postgres"}, "requires postgres-dsn"},
		{"mongo without uri", []string{"--store", "mongo"}, "requires mongo-uri"},
		{"bad log format", []string{"--log-format", "xml"}, `unknown log format "xml"`},
		{"missing config file", []string{"--config", "/nonexistent/tracker.yaml"}, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newBound(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
