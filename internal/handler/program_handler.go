package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/repository"
	"github.com/fitcert/backend/internal/service"
	"github.com/fitcert/backend/pkg/auth"
)

// ProgramHandler serves the certification catalog: public listing/detail
// plus admin CRUD.
type ProgramHandler struct {
	programs service.ProgramService
}

// NewProgramHandler creates a ProgramHandler with the given service.
func NewProgramHandler(programs service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

type programListResponse struct {
	Programs []*model.Program `json:"programs"`
}

// List handles GET /api/programs. Drafts are never exposed here.
func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ProgramListOptions{
		Level:         r.URL.Query().Get("level"),
		PublishedOnly: true,
		Limit:         50,
		Offset:        0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	programs, err := h.programs.List(r.Context(), opts)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if programs == nil {
		programs = []*model.Program{}
	}
	writeJSON(w, http.StatusOK, programListResponse{Programs: programs})
}

// Get handles GET /api/programs/{id}.
func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.programs.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "lookup_failed")
		return
	}
	if !p.Published {
		writeJSONError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// requireAdmin gates the mutation endpoints. Returns false after writing
// the error response when the caller is not an authenticated admin.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if !auth.IsAdminFromContext(r.Context()) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

// Create handles POST /api/admin/programs.
func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var p model.Program
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := h.programs.Create(r.Context(), &p); err != nil {
		if errors.Is(err, service.ErrInvalidProgram) {
			writeJSONError(w, http.StatusBadRequest, "invalid_program")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, &p)
}

// Update handles PUT /api/admin/programs/{id}.
func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var p model.Program
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p.ID = r.PathValue("id")
	if err := h.programs.Update(r.Context(), &p); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProgram):
			writeJSONError(w, http.StatusBadRequest, "invalid_program")
		case errors.Is(err, repository.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "not_found")
		default:
			writeJSONError(w, http.StatusInternalServerError, "update_failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

// Delete handles DELETE /api/admin/programs/{id}.
func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	if err := h.programs.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
