package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// handleCreateSnapshot handles POST /admin/v1/snapshots.
func (h *Handler) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.snapshots.TriggerSnapshot(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, info)
}

// handleListSnapshots handles GET /admin/v1/snapshots.
func (h *Handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := h.snapshots.ListSnapshots()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListSnapshotsResponse{Snapshots: infos})
}

// handleRestoreSnapshot handles POST /admin/v1/snapshots/restore.
// An empty body restores the latest valid archive.
func (h *Handler) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	var req RestoreSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, "invalid request body")
		return
	}

	res, info, err := h.snapshots.RestoreArchive(r.Context(), req.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, restoreToResponse(res, info))
}
