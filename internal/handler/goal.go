package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/MiguelProz/kairos/internal/ctxkeys"
	"github.com/MiguelProz/kairos/internal/repository"
	"github.com/MiguelProz/kairos/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// Create handles POST /api/goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	err := decodeJSON(r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(ctxkeys.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

// List handles GET /api/goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.GoalFilter{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Search:   query.Get("q"),
	}

	goals, err := h.goalService.Goals(ctxkeys.UserID(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// Get handles GET /api/goals/{id}
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goalID, err := goalID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.ByID(ctxkeys.UserID(r.Context()), goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// Update handles PUT /api/goals/{id}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	goalID, err := goalID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.GoalInput
	err = decodeJSON(r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(ctxkeys.UserID(r.Context()), goalID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// Delete handles DELETE /api/goals/{id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID, err := goalID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.goalService.Delete(ctxkeys.UserID(r.Context()), goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// goalID validates the path id before it reaches the database, so a
// malformed id is a 400 rather than a 404.
func goalID(r *http.Request) (string, error) {
	id := r.PathValue("id")
	_, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid goal id", service.ErrInvalidInput)
	}
	return id, nil
}
