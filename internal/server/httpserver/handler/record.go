package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Query parameters accepted by GET /records.
const (
	queryFirstName   = "firstname"
	queryLastName    = "lastname"
	queryDateOfBirth = "dateofbirth"
)

// handleListRecords handles GET /records. At most one of the index
// parameters may be present; without any the whole cabinet is returned.
func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var selected []string
	for _, key := range []string{queryFirstName, queryLastName, queryDateOfBirth} {
		if q.Has(key) {
			selected = append(selected, key)
		}
	}
	if len(selected) > 1 {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"only one of firstname, lastname, dateofbirth may be given", nil)
		return
	}

	var (
		records []domain.Record
		err     error
	)
	switch {
	case len(selected) == 0:
		records, err = h.cabinet.GetAll(r.Context())
	case selected[0] == queryFirstName:
		records, err = h.cabinet.FindByFirstName(r.Context(), q.Get(queryFirstName))
	case selected[0] == queryLastName:
		records, err = h.cabinet.FindByLastName(r.Context(), q.Get(queryLastName))
	default:
		dob, perr := domain.ParseDate(q.Get(queryDateOfBirth))
		if perr != nil {
			h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
				"dateofbirth must use the MM/dd/yyyy layout", nil)
			return
		}
		records, err = h.cabinet.FindByDateOfBirth(r.Context(), dob)
	}
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, recordsToResponse(records))
}

// handleCreateRecord handles POST /records.
func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	id, err := h.cabinet.CreateRecord(r.Context(), fields)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/records/"+strconv.Itoa(id))
	h.writeJSON(w, r, http.StatusCreated, CreateRecordResponse{ID: id})
}

// handleGetRecord handles GET /records/{id}.
func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.cabinet.GetRecord(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, recordToResponse(rec))
}

// handleUpdateRecord handles PUT /records/{id}.
func (h *Handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	if err := h.cabinet.UpdateRecord(r.Context(), id, fields); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	rec, err := h.cabinet.GetRecord(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, recordToResponse(rec))
}

// handleRemoveRecord handles DELETE /records/{id}.
func (h *Handler) handleRemoveRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.cabinet.RemoveRecord(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]int{"removed": id})
}

// handleStat handles GET /stat.
func (h *Handler) handleStat(w http.ResponseWriter, r *http.Request) {
	stat, err := h.cabinet.Stat(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stat)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"record id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeFields(w http.ResponseWriter, r *http.Request) (domain.Fields, bool) {
	var req RecordRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return domain.Fields{}, false
	}

	fields, err := req.Fields()
	if err != nil {
		h.badRequest(w, r, err.Error())
		return domain.Fields{}, false
	}
	return fields, true
}
