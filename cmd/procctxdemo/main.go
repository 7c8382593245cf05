// Command procctxdemo is a small process that publishes its own identity
// via procctx and, optionally, keeps running so an external reader - this
// binary's own --keep-running loop, a debugger, or a shell script scanning
// /proc/<pid>/maps - has time to observe it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"go.opentelemetry.io/otel-process-ctx/procctx"
)

func main() {
	fs := flag.NewFlagSet("procctxdemo", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to an optional YAML configuration file")
	keepRunning := fs.Bool("keep-running", false, "after publishing, keep the process alive (serving /context, and republishing if update_interval_seconds is set) until SIGINT/SIGTERM")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "procctxdemo: unexpected argument %q\n", fs.Arg(0))
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "procctxdemo: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	attrs, err := buildAttributes(cfg, 0)
	if err != nil {
		logger.Error("failed to build attributes", slog.Any("error", err))
		os.Exit(1)
	}

	if res := procctx.Publish(attrs); !res.Success {
		logger.Error("publish failed", slog.String("error", res.ErrorMessage))
		os.Exit(1)
	}
	logger.Info("context published",
		slog.String("service_name", cfg.ServiceName),
		slog.String("service_version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.String("instance_id", cfg.InstanceID),
	)

	defer func() {
		if !procctx.DropCurrent() {
			logger.Warn("failed to drop published context cleanly")
		}
	}()

	if read := procctx.Read(); !read.Success {
		logger.Warn("self-read after publish failed", slog.String("error", read.ErrorMessage))
	} else {
		logger.Info("self-read confirmed published context", slog.String("service_name", read.Data.ServiceName))
	}

	if !*keepRunning {
		return
	}

	runUntilSignal(cfg, logger)
}

// runUntilSignal serves the discovery endpoint, periodically republishes
// the context if configured to, and blocks until SIGINT or SIGTERM.
func runUntilSignal(cfg *config, logger *slog.Logger) {
	server := &http.Server{
		Addr:         cfg.DiscoveryAddr,
		Handler:      newDiscoveryRouter(logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("discovery server listening", slog.String("addr", cfg.DiscoveryAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("discovery server error", slog.Any("error", err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	var ticker *time.Ticker
	var tickCh <-chan time.Time
	if cfg.UpdateIntervalSeconds > 0 {
		ticker = time.NewTicker(time.Duration(cfg.UpdateIntervalSeconds) * time.Second)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	var generation int
	for {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("discovery server shutdown error", slog.Any("error", err))
			}
			return
		case <-tickCh:
			generation++
			attrs, err := buildAttributes(cfg, generation)
			if err != nil {
				logger.Error("failed to build updated attributes", slog.Any("error", err))
				continue
			}
			if res := procctx.Publish(attrs); !res.Success {
				logger.Error("update failed", slog.String("error", res.ErrorMessage))
				continue
			}
			logger.Info("context updated", slog.Int("generation", generation))
		}
	}
}

// buildAttributes constructs a procctx.Attributes from cfg by first
// building an OpenTelemetry Resource - the way a process that already
// exports traces or metrics would - and bridging it with
// procctx.FromResource, rather than populating the struct fields directly.
// generation, when nonzero, is folded in as a resource attribute to give
// each periodic update a value that visibly changes.
func buildAttributes(cfg *config, generation int) (*procctx.Attributes, error) {
	attrs := []attribute.KeyValue{
		semconv.DeploymentEnvironmentNameKey.String(cfg.Environment),
		semconv.ServiceInstanceIDKey.String(cfg.InstanceID),
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.TelemetrySDKLanguageKey.String("go"),
		semconv.TelemetrySDKVersionKey.String(sdk.Version()),
		semconv.TelemetrySDKNameKey.String("opentelemetry"),
	}
	if generation > 0 {
		attrs = append(attrs, attribute.String("procctxdemo.generation", fmt.Sprintf("%d", generation)))
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	parsed, err := procctx.FromResource(res)
	if err != nil {
		return nil, fmt.Errorf("bridge resource into procctx attributes: %w", err)
	}
	return &parsed, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
