// Package config resolves the tracker's settings from command-line flags,
// TRACKER_* environment variables and an optional config file, in that order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "TRACKER"

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

var Drivers = []string{DriverMemory, DriverSQLite, DriverPostgres, DriverMongo}

// Storage selects and addresses the persistence backend.
type Storage struct {
	Driver        string
	SQLitePath    string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
}

type Config struct {
	Port            string
	Debug           bool
	LogFormat       string
	ShutdownTimeout time.Duration
	LogLimitCap     int
	CORSOrigins     []string
	Storage         Storage
}

// BindFlags registers the server flags on cmd and wires them, plus the
// environment, into v.
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	fs := cmd.Flags()
	fs.String("config", "", "Path to a yaml, json or toml config file. Env: TRACKER_CONFIG")
	fs.String("port", "3000", "HTTP listen port or host:port. Env: TRACKER_PORT, PORT")
	fs.String("store", DriverMemory, "Storage backend: memory, sqlite, postgres or mongo. Env: TRACKER_STORE")
	fs.String("sqlite-path", "tracker.db", "SQLite database file. Env: TRACKER_SQLITE_PATH")
	fs.String("postgres-dsn", "", "PostgreSQL connection string. Env: TRACKER_POSTGRES_DSN")
	fs.String("mongo-uri", "", "MongoDB connection URI. Env: TRACKER_MONGO_URI, MONGO_URI")
	fs.String("mongo-database", "exercise_tracker", "MongoDB database name. Env: TRACKER_MONGO_DATABASE")
	fs.Bool("debug", false, "Enable debug logging. Env: TRACKER_DEBUG")
	fs.String("log-format", "text", "Log format: text or json. Env: TRACKER_LOG_FORMAT")
	fs.Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown timeout. Env: TRACKER_SHUTDOWN_TIMEOUT")
	fs.StringSlice("cors-origins", []string{"*"}, "Browser origins allowed to call the API. Env: TRACKER_CORS_ORIGINS (space separated)")
	fs.Int("log-limit-cap", 500, "Maximum log entries returned when no limit is given. Env: TRACKER_LOG_LIMIT_CAP")

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// PORT and MONGO_URI are what hosting platforms inject.
	if err := v.BindEnv("port", EnvPrefix+"_PORT", "PORT"); err != nil {
		return fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("mongo-uri", EnvPrefix+"_MONGO_URI", "MONGO_URI"); err != nil {
		return fmt.Errorf("bind env: %w", err)
	}
	return nil
}

// Load reads the optional config file and returns the validated settings.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("port"),
		Debug:           v.GetBool("debug"),
		LogFormat:       strings.ToLower(v.GetString("log-format")),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		LogLimitCap:     v.GetInt("log-limit-cap"),
		CORSOrigins:     v.GetStringSlice("cors-origins"),
		Storage: Storage{
			Driver:        strings.ToLower(v.GetString("store")),
			SQLitePath:    v.GetString("sqlite-path"),
			PostgresDSN:   v.GetString("postgres-dsn"),
			MongoURI:      v.GetString("mongo-uri"),
			MongoDatabase: v.GetString("mongo-database"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown timeout must not be negative"))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s Storage) Validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverSQLite:
		if s.SQLitePath == "" {
			return errors.New("sqlite store requires sqlite-path")
		}
	case DriverPostgres:
		if s.PostgresDSN == "" {
			return errors.New("postgres store requires postgres-dsn")
		}
	case DriverMongo:
		if s.MongoURI == "" {
			return errors.New("mongo store requires mongo-uri")
		}
		if s.MongoDatabase == "" {
			return errors.New("mongo store requires mongo-database")
		}
	default:
		return fmt.Errorf("unknown store %q (want one of %s)", s.Driver, strings.Join(Drivers, ", "))
	}
	return nil
}

// Addr turns Port into a listen address; a bare port listens on all interfaces.
func (c *Config) Addr() string {
	if _, _, err := net.SplitHostPort(c.Port); err == nil {
		return c.Port
	}
	return ":" + c.Port
}
