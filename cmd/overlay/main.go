// overlay runs the danmaku connection supervisor headless. Shell commands are
// served on a loopback-only HTTP control API, standing in for the desktop
// shell's IPC bridge, and window signals are printed to stdout as JSON lines.
//
// Usage: go run ./cmd/overlay --config configs/overlay.yaml [--url ws://host:port/path]
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/danmaku-overlay/internal/config"
	"github.com/rickgao/danmaku-overlay/internal/connection"
	"github.com/rickgao/danmaku-overlay/internal/event"
	"github.com/rickgao/danmaku-overlay/internal/host"
	"github.com/rickgao/danmaku-overlay/internal/metrics"
	"github.com/rickgao/danmaku-overlay/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults only when empty)")
	serverURL := flag.String("url", "", "danmaku server to connect to at startup (overrides server.url)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *serverURL)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting overlay host",
		"version", version.Version,
		"commit", version.Commit,
		"control_addr", cfg.Control.Addr,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("overlay host failed", "error", err)
		os.Exit(1)
	}
	logger.Info("overlay host stopped")
}

func loadConfig(path, serverURL string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadWithDefaults(path); err != nil {
			return nil, err
		}
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	queue := event.NewQueue(cfg.Events.QueueCapacity, cfg.Events.GrowthLimit())

	connCfg := connection.DefaultConfig()
	connCfg.HandshakeTimeout = cfg.Server.HandshakeTimeout
	connCfg.ReadLimit = cfg.Server.FrameLimit()
	connCfg.Header = http.Header{}
	for name, value := range cfg.Server.Headers {
		connCfg.Header.Set(name, value)
	}
	sup := connection.NewSupervisor(connCfg, m.Sink(m.QueueSink(queue)), logger)

	overlay := host.NewConsoleWindow(cfg.Overlay.Window, os.Stdout)
	cmds := host.NewCommands(sup, host.WindowSet{overlay.Label(): overlay}, cfg.Overlay.Window, cancel, logger)

	var opts []host.ServerOption
	if cfg.Metrics.Enabled {
		opts = append(opts, host.WithMetrics(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	controlServer := &http.Server{
		Addr:              cfg.Control.Addr,
		Handler:           host.NewHandler(cmds, logger, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting control server", "addr", cfg.Control.Addr)
		if err := controlServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return host.NewForwarder(queue, overlay, m, logger).Run(context.Background())
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		shutdown(shutdownCtx, logger, controlServer, sup)
		// Lets the forwarder drain the final Closed events, then return.
		queue.Close()
		return nil
	})

	if cfg.Server.URL != "" {
		if _, err := cmds.StartServerConnection(cfg.Server.URL); err != nil {
			logger.Error("autostart failed", "error", err)
		}
	}

	return g.Wait()
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops the control server before the supervisor so no command can
// start a connection mid-teardown. Failures are logged, not returned.
func shutdown(ctx context.Context, logger *slog.Logger, server, sup shutdowner) {
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("control server shutdown incomplete", "error", err)
	}
	if err := sup.Shutdown(ctx); err != nil {
		logger.Warn("supervisor shutdown incomplete", "error", err)
	}
}
