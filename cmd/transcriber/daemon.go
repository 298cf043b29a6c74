package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/martinbockt/transcriber/internal/api"
	"github.com/martinbockt/transcriber/internal/audit"
	"github.com/martinbockt/transcriber/internal/config"
	"github.com/martinbockt/transcriber/internal/daemon"
	"github.com/martinbockt/transcriber/internal/logbuf"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the transcriber daemon",
	Long:  "Start the companion daemon. Serves the secret store, recording buffer, and file export over a local socket.",
	RunE:  runDaemon,
}

var (
	apiAddr    string
	configPath string
)

func init() {
	daemonCmd.Flags().StringVar(&apiAddr, "api-addr", "", "Optional TCP address for API (e.g. 127.0.0.1:9090)")
	daemonCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default ~/.transcriber/config.yaml)")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Recent log lines are served over the API, so logging goes both
	// to stderr and an in-memory ring.
	logs := logbuf.New(500)
	slog.SetDefault(slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, logs), nil)))

	slog.Info("transcriber daemon starting", "data_dir", cfg.DataDir, "key_strategy", cfg.KeyStrategy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	auditPath, err := auditLogPath()
	if err != nil {
		return fmt.Errorf("resolving audit log path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(auditPath), 0700); err != nil {
		return fmt.Errorf("creating home dir: %w", err)
	}
	auditLog, err := audit.NewLogger(auditPath)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer auditLog.Close()

	d, err := daemon.New(cfg, auditLog)
	if err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}
	go func() {
		if err := d.StartWatcher(ctx); err != nil {
			slog.Warn("secure dir watcher unavailable", "error", err)
		}
	}()

	socketPath := defaultSocketPath()
	// Remove stale socket
	os.Remove(socketPath)
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return fmt.Errorf("creating socket dir: %w", err)
	}

	srv := api.NewServer(d, logs)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenUnix(socketPath)
	}()

	if apiAddr == "" {
		apiAddr = cfg.APIAddr
	}
	if apiAddr != "" {
		go func() {
			if err := srv.ListenTCP(apiAddr); err != nil {
				slog.Error("TCP API error", "error", err)
			}
		}()
	}

	slog.Info("transcriber daemon ready", "socket", socketPath)

	select {
	case sig := <-sigCh:
		slog.Info("received signal, shutting down", "signal", sig)
	case err := <-errCh:
		if err != nil {
			slog.Error("API server error", "error", err)
		}
	}

	cancel()
	srv.Shutdown(context.Background())
	os.Remove(socketPath)

	slog.Info("transcriber daemon stopped")
	return nil
}
