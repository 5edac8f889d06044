package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
)

// ServerConfig is the root configuration for filecabinet-server.
type ServerConfig struct {
	Server     ServerSection     `koanf:"server"`
	Validation ValidationSection `koanf:"validation"`
	Storage    StorageSection    `koanf:"storage"`
	Log        LogSection        `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is the sustained requests per second per client; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// TrustedProxies lists IPs or CIDRs whose X-Forwarded-For and X-Real-IP
	// headers name the client. Empty means the peer address is always used.
	TrustedProxies []string `koanf:"trusted_proxies"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (c HTTPConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

// ValidationSection selects the active profile and holds both profiles' limits.
type ValidationSection struct {
	Profile string            `koanf:"profile"`
	Default validation.Limits `koanf:"default"`
	Custom  validation.Limits `koanf:"custom"`
}

// StorageSection configures snapshot archiving.
type StorageSection struct {
	SnapshotDir           string        `koanf:"snapshot_dir"`
	SnapshotKeep          int           `koanf:"snapshot_keep"`
	SnapshotRetentionDays int           `koanf:"snapshot_retention_days"`
	SnapshotInterval      time.Duration `koanf:"snapshot_interval"`
	RestoreOnStart        bool          `koanf:"restore_on_start"`
	Passphrase            string        `koanf:"passphrase"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ActiveLimits returns the limits of the selected profile.
func (v ValidationSection) ActiveLimits() validation.Limits {
	if v.Profile == validation.ProfileCustom {
		return v.Custom
	}
	return v.Default
}

// Pipeline builds the pipeline of the selected profile.
// A nil clock means time.Now.
func (v ValidationSection) Pipeline(now func() time.Time) (*validation.Pipeline, error) {
	profile := v.Profile
	if profile == "" {
		profile = validation.ProfileDefault
	}
	return validation.FromLimits(profile, v.ActiveLimits(), now)
}
