package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"exercise-tracker/internal/api"
	"exercise-tracker/internal/config"
	"exercise-tracker/internal/logging"
	"exercise-tracker/internal/metrics"
	"exercise-tracker/internal/storage"
	"exercise-tracker/internal/tracker"
)

var version = "dev"

func newRootCmd() (*cobra.Command, error) {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          "tracker",
		Short:        "Exercise tracker HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logging.Init(level, cfg.LogFormat, os.Stdout)
			log := logging.GetLogger().With("service", "exercise-tracker")

			if err := metrics.Initialize(); err != nil {
				log.Warn("metrics disabled", "error", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}
	if err := config.BindFlags(rootCmd, v); err != nil {
		return nil, err
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tracker version %s\n", version)
			return err
		},
	})
	return rootCmd, nil
}

// run serves the API until ctx is cancelled, then drains in-flight requests
// for up to cfg.ShutdownTimeout.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close store", "error", err)
		}
	}()

	svc := tracker.New(store, tracker.WithLogger(log), tracker.WithLimitCap(cfg.LogLimitCap))
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.SetupRouter(svc, log, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "store", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

func main() {
	rootCmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
