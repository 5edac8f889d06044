package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/snapshot"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
)

// DefaultMaxImportBytes caps the body of POST /import.
const DefaultMaxImportBytes = 32 << 20

// SnapshotAdmin is the archive surface used by the admin endpoints.
// *storage.Engine implements it.
type SnapshotAdmin interface {
	TriggerSnapshot(ctx context.Context) (*snapshot.Info, error)
	ListSnapshots() ([]*snapshot.Info, error)
	RestoreArchive(ctx context.Context, id string) (*domain.RestoreResult, *snapshot.Info, error)
}

// Config wires a Handler.
type Config struct {
	// Cabinet serves record operations. Required.
	Cabinet service.Cabinet

	// Snapshots enables the /admin/v1/snapshots endpoints when set.
	Snapshots SnapshotAdmin

	// Metrics is served on GET /metrics when set.
	Metrics http.Handler

	Logger         *slog.Logger
	Version        string
	MaxImportBytes int64
}

// Handler routes requests to the record, exchange and admin endpoints.
type Handler struct {
	cabinet   service.Cabinet
	snapshots SnapshotAdmin
	metrics   http.Handler
	logger    *slog.Logger
	version   string
	maxImport int64
	mux       *http.ServeMux
}

// New creates a Handler.
func New(cfg Config) *Handler {
	h := &Handler{
		cabinet:   cfg.Cabinet,
		snapshots: cfg.Snapshots,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		version:   cfg.Version,
		maxImport: cfg.MaxImportBytes,
		mux:       http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.maxImport <= 0 {
		h.maxImport = DefaultMaxImportBytes
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler. Each request carries a logger
// scoped to its method and path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqLog := h.logger.With("method", r.Method, "path", r.URL.Path)
	h.mux.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), reqLog)))
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics)
	}

	h.mux.HandleFunc("GET /records", h.handleListRecords)
	h.mux.HandleFunc("POST /records", h.handleCreateRecord)
	h.mux.HandleFunc("GET /records/{id}", h.handleGetRecord)
	h.mux.HandleFunc("PUT /records/{id}", h.handleUpdateRecord)
	h.mux.HandleFunc("DELETE /records/{id}", h.handleRemoveRecord)
	h.mux.HandleFunc("GET /stat", h.handleStat)

	h.mux.HandleFunc("GET /export", h.handleExport)
	h.mux.HandleFunc("POST /import", h.handleImport)

	if h.snapshots != nil {
		h.mux.HandleFunc("POST /admin/v1/snapshots", h.handleCreateSnapshot)
		h.mux.HandleFunc("GET /admin/v1/snapshots", h.handleListSnapshots)
		h.mux.HandleFunc("POST /admin/v1/snapshots/restore", h.handleRestoreSnapshot)
	}
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	response := NewResponse(logger.RequestIDFromContext(r.Context()), data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	response := NewErrorResponse(logger.RequestIDFromContext(r.Context()), code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// badRequest answers 400 with the generic malformed-request code.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, message, nil)
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrRecordValidation.Code, ve.Error(),
			map[string]string{"field": ve.Field, "reason": ve.Reason})
		return
	}

	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		h.writeError(w, r, errorCodeToHTTPStatus(code), code, err.Error(), nil)
		return
	}

	logger.FromContext(r.Context()).ErrorContext(r.Context(), "internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, domain.ErrInternalServer.Message, nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"), strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "FC-ARG-"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
