package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Server.HTTP.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.HTTP.ShutdownTimeout)
	}
	if cfg.Validation.Profile != validation.ProfileDefault {
		t.Errorf("Profile = %q", cfg.Validation.Profile)
	}
	if cfg.Storage.SnapshotKeep != DefaultSnapshotKeep {
		t.Errorf("SnapshotKeep = %d, want %d", cfg.Storage.SnapshotKeep, DefaultSnapshotKeep)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"defaults", func(*ServerConfig) {}, ""},
		{"missing addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "" }, "server.http.addr"},
		{"half tls", func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "cert.pem" }, "tls_key_file"},
		{"negative rate", func(c *ServerConfig) { c.Server.HTTP.RateLimit = -1 }, "rate_limit"},
		{"zero burst", func(c *ServerConfig) { c.Server.HTTP.RateBurst = 0 }, "rate_burst"},
		{"trusted proxies", func(c *ServerConfig) { c.Server.HTTP.TrustedProxies = []string{"10.0.0.0/8", "::1"} }, ""},
		{"bad trusted proxy", func(c *ServerConfig) { c.Server.HTTP.TrustedProxies = []string{"10.0.0.0/33"} }, "trusted_proxies"},
		{"unknown profile", func(c *ServerConfig) { c.Validation.Profile = "strict" }, "validation.profile"},
		{"bad custom pattern", func(c *ServerConfig) { c.Validation.Custom.NamePattern = "[" }, "validation.custom"},
		{"bad default bounds", func(c *ServerConfig) { c.Validation.Default.NameMaxLength = 1 }, "validation.default"},
		{"missing snapshot dir", func(c *ServerConfig) { c.Storage.SnapshotDir = "" }, "snapshot_dir"},
		{"keep zero", func(c *ServerConfig) { c.Storage.SnapshotKeep = 0 }, "snapshot_keep"},
		{"negative interval", func(c *ServerConfig) { c.Storage.SnapshotInterval = -time.Second }, "snapshot_interval"},
		{"weak passphrase", func(c *ServerConfig) { c.Storage.Passphrase = "abc" }, "passphrase"},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Storage.SnapshotDir = filepath.Join(t.TempDir(), "snaps")
			tt.mutate(cfg)

			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Verify: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Verify err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPConfig_TrustedProxyPrefixes(t *testing.T) {
	c := HTTPConfig{TrustedProxies: []string{"192.168.1.7/16", " 10.0.0.1 ", "::ffff:172.16.0.1", "fd00::/8"}}
	got, err := c.TrustedProxyPrefixes()
	if err != nil {
		t.Fatalf("TrustedProxyPrefixes: %v", err)
	}
	want := []string{"192.168.0.0/16", "10.0.0.1/32", "172.16.0.1/32", "fd00::/8"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("prefix %d = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := (HTTPConfig{TrustedProxies: []string{"proxy.local"}}).TrustedProxyPrefixes(); err == nil {
		t.Fatal("hostname accepted as trusted proxy")
	}
}

func TestValidationSection_Pipeline(t *testing.T) {
	cfg := Default()

	p, err := cfg.Validation.Pipeline(nil)
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if p.Profile() != validation.ProfileDefault {
		t.Fatalf("Profile = %q", p.Profile())
	}

	cfg.Validation.Profile = validation.ProfileCustom
	cfg.Validation.Custom.MinReviews = 7
	if got := cfg.Validation.ActiveLimits().MinReviews; got != 7 {
		t.Fatalf("ActiveLimits().MinReviews = %d", got)
	}
	p, err = cfg.Validation.Pipeline(nil)
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if p.Profile() != validation.ProfileCustom {
		t.Fatalf("Profile = %q", p.Profile())
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Storage.Passphrase = "super-secret-passphrase"

	sanitized := Sanitize(cfg)

	if cfg.Storage.Passphrase != "super-secret-passphrase" {
		t.Error("original config was modified")
	}
	if sanitized.Storage.Passphrase == cfg.Storage.Passphrase {
		t.Error("passphrase was not masked")
	}
	if !strings.HasPrefix(sanitized.Storage.Passphrase, "su") || !strings.HasSuffix(sanitized.Storage.Passphrase, "se") {
		t.Errorf("masked = %q", sanitized.Storage.Passphrase)
	}
	if maskSecret("abc") != "****" {
		t.Error("short secrets should be fully masked")
	}
}
