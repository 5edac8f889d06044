package config

import (
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultRateLimit       = 100
	DefaultRateBurst       = 200
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSnapshotDir           = "data/snapshots"
	DefaultSnapshotKeep          = 5
	DefaultSnapshotRetentionDays = 7

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				RateLimit:       DefaultRateLimit,
				RateBurst:       DefaultRateBurst,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Validation: ValidationSection{
			Profile: validation.ProfileDefault,
			Default: validation.DefaultLimits(),
			Custom:  validation.CustomLimits(),
		},
		Storage: StorageSection{
			SnapshotDir:           DefaultSnapshotDir,
			SnapshotKeep:          DefaultSnapshotKeep,
			SnapshotRetentionDays: DefaultSnapshotRetentionDays,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
