package httpserver

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Cabinet serves record operations.
	Cabinet service.Cabinet

	// Snapshots backs the admin snapshot endpoints; nil disables them.
	Snapshots handler.SnapshotAdmin

	// Metrics is exposed on GET /metrics; nil disables it.
	Metrics http.Handler

	// Observer receives per-request measurements.
	Observer RequestObserver

	// Logger for request logging.
	Logger *slog.Logger

	// RateLimit is the sustained requests per second per client IP (0 = unlimited).
	RateLimit float64
	RateBurst int

	// TrustedProxies are the peers whose forwarding headers name the client.
	TrustedProxies []netip.Prefix

	Version string
}

// NewRouter creates the HTTP handler with all routes and middleware.
//
// Order: Recover -> RequestID -> Observe -> RateLimit -> routes.
// /health and /metrics bypass the rate limiter.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(handler.Config{
		Cabinet:   cfg.Cabinet,
		Snapshots: cfg.Snapshots,
		Metrics:   cfg.Metrics,
		Logger:    log,
		Version:   cfg.Version,
	})

	ips := NewClientIPResolver(cfg.TrustedProxies)
	limited := RateLimit(cfg.RateLimit, cfg.RateBurst, ips)(h)

	mux := http.NewServeMux()
	mux.Handle("GET /health", h)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", h)
	}
	mux.Handle("/", limited)

	return Chain(mux,
		Recover(log),
		RequestID(),
		Observe(log, cfg.Observer, ips),
	)
}
