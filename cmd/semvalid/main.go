// Package main is the entry point for the SemValid service. SemValid
// validates linked data resources against the SHACL artifacts their
// profiles designate and serves the conformance reports over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/c360/semvalid/config"
	"github.com/c360/semvalid/fetcher"
	"github.com/c360/semvalid/health"
	"github.com/c360/semvalid/metric"
	"github.com/c360/semvalid/pipeline"
	"github.com/c360/semvalid/profile"
	"github.com/c360/semvalid/service"
	"github.com/c360/semvalid/shacl/memory"
)

const (
	Version   = fetcher.Version
	BuildTime = "dev"
	appName   = "semvalid"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flags outrank both the file and the environment.
	if cliCfg.LogLevel != "" {
		cfg.Log.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Log.Format = cliCfg.LogFormat
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		slog.Info("configuration is valid", "config_path", cliCfg.ConfigPath)
		return nil
	}

	slog.Info("starting semvalid",
		"version", Version,
		"build_time", BuildTime,
		"addr", cfg.Server.Addr(),
		"config_path", cliCfg.ConfigPath)

	metrics := metric.NewMetrics()
	monitor := health.NewMonitor()

	f := fetcher.New(cfg.FetcherConfig(), metrics, logger)
	monitor.UpdateHealthy("fetcher", "outbound client ready")

	engine := memory.NewEngine()
	monitor.UpdateHealthy("engine", "in-memory SHACL engine ready")

	resolver := profile.NewResolver(f, logger)
	p := pipeline.New(f, resolver, engine, metrics, logger)
	server := service.NewServer(cfg.Server, p, monitor, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = server.Run(ctx)
	slog.Info("semvalid stopped")
	return err
}
