package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/repository"
)

// CoachHandler serves the public coach directory. Responses are built from
// model.User, whose email field never marshals.
type CoachHandler struct {
	users repository.UserRepository
}

// NewCoachHandler creates a CoachHandler with the given repository.
func NewCoachHandler(users repository.UserRepository) *CoachHandler {
	return &CoachHandler{users: users}
}

type coachListResponse struct {
	Coaches []*model.User `json:"coaches"`
}

// List handles GET /api/coaches. Supports limit/offset query params.
func (h *CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := 20, 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	coaches, err := h.users.ListCoaches(r.Context(), limit, offset)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if coaches == nil {
		coaches = []*model.User{}
	}
	writeJSON(w, http.StatusOK, coachListResponse{Coaches: coaches})
}

// Get handles GET /api/coaches/{id}. Any id that does not resolve to an
// active coach is a plain 404, same as the contact relay.
func (h *CoachHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.FindByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "lookup_failed")
		return
	}
	if !u.IsCoach() {
		writeJSONError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
