package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise-tracker/internal/config"
)

func TestVersionCommand(t *testing.T) {
	cmd, err := newRootCmd()
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tracker version dev\n", out.String())
}

func TestRootCommand_RejectsBadConfig(t *testing.T) {
	cmd, err := newRootCmd()
	require.NoError(t, err)

	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--store", "redis"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store "redis"`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Port:            "127.0.0.1:0",
		LogFormat:       "text",
		ShutdownTimeout: time.Second,
		LogLimitCap:     500,
		Storage:         config.Storage{Driver: config.DriverSQLite, SQLitePath: ":memory:"},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, log) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRun_StoreFailure(t *testing.T) {
	cfg := &config.Config{
		Port:    "127.0.0.1:0",
		Storage: config.Storage{Driver: config.DriverSQLite, SQLitePath: "/nonexistent-dir/tracker.db"},
	}
	err := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open sqlite store")
}
