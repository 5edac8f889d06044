package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/snapshot"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := VerifyValidation(&cfg.Validation); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateBurst < 1 {
		return errors.New("server.http.rate_burst must be at least 1 when rate limiting is enabled")
	}
	if _, err := cfg.HTTP.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("server.http.trusted_proxies: %w", err)
	}
	return nil
}

// VerifyValidation checks that both profiles build. It is also used to
// vet a hot-reloaded validation section before it replaces the active one.
func VerifyValidation(cfg *ValidationSection) error {
	switch cfg.Profile {
	case validation.ProfileDefault, validation.ProfileCustom:
	default:
		return fmt.Errorf("validation.profile must be %q or %q, got %q",
			validation.ProfileDefault, validation.ProfileCustom, cfg.Profile)
	}
	if _, err := validation.FromLimits(validation.ProfileDefault, cfg.Default, nil); err != nil {
		return fmt.Errorf("validation.default: %w", err)
	}
	if _, err := validation.FromLimits(validation.ProfileCustom, cfg.Custom, nil); err != nil {
		return fmt.Errorf("validation.custom: %w", err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.SnapshotDir == "" {
		return errors.New("storage.snapshot_dir is required")
	}

	// Check if snapshot directory exists or can be created
	if err := os.MkdirAll(cfg.SnapshotDir, 0750); err != nil {
		return errors.New("cannot create snapshot directory: " + err.Error())
	}

	if cfg.SnapshotKeep < 1 {
		return errors.New("storage.snapshot_keep must be at least 1")
	}
	if cfg.SnapshotInterval < 0 {
		return errors.New("storage.snapshot_interval must not be negative")
	}
	if err := snapshot.ValidatePassphrase([]byte(cfg.Passphrase)); err != nil {
		return fmt.Errorf("storage.passphrase: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not supported", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not supported", cfg.Format)
	}
	return nil
}
