package handler

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/codec"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
)

// handleExport handles GET /export?format=csv|xml.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	snap, err := h.cabinet.Snapshot(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf, snap.Records()); err != nil {
		h.handleServiceError(w, r, fmt.Errorf("encode export: %w", err))
		return
	}

	filename := fmt.Sprintf("records-%s.%s", snap.TakenAt().UTC().Format("20060102T150405Z"), c.Format())
	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("X-Record-Count", fmt.Sprint(snap.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "export write failed", "error", err)
	}
}

// handleImport handles POST /import?format=csv|xml. The format falls back to
// the request Content-Type when the query parameter is absent.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatFromContentType(r.Header.Get("Content-Type"))
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	start := time.Now()
	body := http.MaxBytesReader(w, r.Body, h.maxImport)
	candidates, err := c.Decode(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, http.StatusRequestEntityTooLarge, domain.ErrBadRequest.Code,
				fmt.Sprintf("import body exceeds %d bytes", tooLarge.Limit), nil)
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	res, err := h.cabinet.Restore(r.Context(), candidates)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).InfoContext(r.Context(), "records imported",
		"format", c.Format(),
		"accepted", res.Accepted,
		"rejected", len(res.Rejections),
		"elapsed", time.Since(start))
	h.writeJSON(w, r, http.StatusOK, restoreToResponse(res, nil))
}

func formatFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch mt {
	case "text/csv":
		return codec.FormatCSV
	case "application/xml", "text/xml":
		return codec.FormatXML
	}
	return ""
}
