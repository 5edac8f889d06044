package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/confloader"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/server/config"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 200 * time.Millisecond

// pipelineSetter is the part of the record service a reload touches.
type pipelineSetter interface {
	SetPipeline(p *validation.Pipeline)
}

// reloadValidation re-reads the configuration and swaps in a new validation
// pipeline and log level. Any error leaves the running pipeline untouched.
func reloadValidation(configFile string, overrides map[string]any, target pipelineSetter) error {
	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(configFile), confloader.WithOverrides(overrides))
	if err := loader.Load(cfg); err != nil {
		return err
	}
	if err := config.VerifyValidation(&cfg.Validation); err != nil {
		return err
	}

	pipeline, err := cfg.Validation.Pipeline(nil)
	if err != nil {
		return fmt.Errorf("build validation pipeline: %w", err)
	}
	target.SetPipeline(pipeline)

	if cfg.Log.Level != "" {
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	return nil
}

// watchValidation starts an fsnotify watcher that reloads on every write to configFile.
func watchValidation(configFile string, overrides map[string]any, target pipelineSetter, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(log),
		confloader.WithDebounce(reloadDebounce),
	)
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		if err := reloadValidation(path, overrides, target); err != nil {
			log.Error("configuration reload rejected", "file", path, "error", err)
			return
		}
		log.Info("configuration reloaded", "file", path, "log_level", logger.GetLevel())
	})
	watcher.StartAsync()
	return watcher, nil
}
