// Command filecabinet-server keeps the record cabinet in memory and serves
// it over HTTP.
//
// Usage:
//
//	filecabinet-server [-config FILE] [-validation-rules default|custom] [-addr HOST:PORT]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/buildinfo"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/confloader"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/shutdown"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/server/config"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/server/httpserver"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/memory"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/metric"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the command line flags.
type options struct {
	configFile  string
	rules       string
	addr        string
	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("filecabinet-server", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "path to configuration file")
	fs.StringVar(&opts.rules, "validation-rules", "", "validation profile: default or custom")
	fs.StringVar(&opts.addr, "addr", "", "HTTP listen address")
	fs.BoolVar(&opts.showVersion, "version", false, "show version information")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// overrides maps flags onto configuration keys; flags win over file and env.
func (o *options) overrides() map[string]any {
	m := map[string]any{}
	if o.rules != "" {
		m["validation.profile"] = o.rules
	}
	if o.addr != "" {
		m["server.http.addr"] = o.addr
	}
	return m
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Printf("filecabinet-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(opts.configFile, opts.overrides())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	log.Info("starting filecabinet-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", opts.configFile,
		"effective", config.Sanitize(cfg))

	pipeline, err := cfg.Validation.Pipeline(nil)
	if err != nil {
		return fmt.Errorf("build validation pipeline: %w", err)
	}
	svc := service.NewRecordService(memory.New(), pipeline, service.WithLogger(log))

	metrics := metric.Global()
	metrics.MustRegister(metric.NewProfileCollector(func() string { return svc.Pipeline().Profile() }))
	cabinet := service.Chain(svc, service.WithLogging(log), service.WithMetrics(metrics))

	engine, err := initStorage(cfg, cabinet, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	ctx := context.Background()
	if cfg.Storage.RestoreOnStart {
		res, err := engine.Recover(ctx)
		if err != nil {
			_ = engine.Close()
			return fmt.Errorf("restore snapshot: %w", err)
		}
		log.Info("restored latest snapshot", "accepted", res.Accepted, "rejected", len(res.Rejections))
	}

	trusted, err := cfg.Server.HTTP.TrustedProxyPrefixes()
	if err != nil {
		_ = engine.Close()
		return fmt.Errorf("trusted proxies: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Cabinet:   cabinet,
		Snapshots: engine,
		Metrics:   metrics.Handler(),
		Observer:  metrics,
		Logger:    log,
		RateLimit: cfg.Server.HTTP.RateLimit,
		RateBurst: cfg.Server.HTTP.RateBurst,
		Version:   buildinfo.Version,

		TrustedProxies: trusted,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log)

	shutdownHandler.OnShutdown("storage", func(context.Context) error {
		return engine.Close()
	})

	if opts.configFile != "" {
		watcher, err := watchValidation(opts.configFile, opts.overrides(), svc, log)
		if err != nil {
			log.Warn("configuration hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the optional file, FILECABINET_* env vars and
// flag overrides, then verifies the result.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initStorage(cfg *config.ServerConfig, cabinet service.Cabinet, log *slog.Logger) (*storage.Engine, error) {
	storageCfg := storage.DefaultConfig(cfg.Storage.SnapshotDir)
	storageCfg.Logger = log
	storageCfg.SnapshotInterval = cfg.Storage.SnapshotInterval

	if cfg.Storage.SnapshotKeep > 0 {
		storageCfg.Snapshot.RetentionCount = cfg.Storage.SnapshotKeep
	}
	storageCfg.Snapshot.RetentionDays = cfg.Storage.SnapshotRetentionDays
	if cfg.Storage.Passphrase != "" {
		storageCfg.Snapshot.Passphrase = []byte(cfg.Storage.Passphrase)
	}

	return storage.New(storageCfg, cabinet)
}
