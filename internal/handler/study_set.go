// Package handler contains the JSON HTTP handlers.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (URL params, JSON body)
//  2. Take the caller from the context (auth.CurrentUserFromContext, nil if anonymous)
//  3. Call the service with that caller passed explicitly
//  4. Write the response, mapping service errors through writeError
//
// Handlers hold no business rules. Whether an anonymous caller may do
// something is decided by the services, not by which middleware a route has.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/flashcard/internal/auth"
	"github.com/sakif/flashcard/internal/service"
)

// StudySetHandler serves /api/study-sets.
type StudySetHandler struct {
	sets   *service.StudySetService
	logger *slog.Logger
}

func NewStudySetHandler(sets *service.StudySetService, logger *slog.Logger) *StudySetHandler {
	return &StudySetHandler{sets: sets, logger: logger}
}

type studySetRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

// HandleList returns every study set, newest first.
//
// HTTP: GET /api/study-sets
func (h *StudySetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sets, err := h.sets.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// HandleGetByID returns one study set.
//
// HTTP: GET /api/study-sets/{id}
func (h *StudySetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	set, err := h.sets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// HandleCreate stores a new study set authored by the caller.
//
// HTTP: POST /api/study-sets
// REQUEST BODY: {"title": "Spanish 101", "description": "basics", "level": "beginner"}
func (h *StudySetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req studySetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	set, err := h.sets.Create(r.Context(), auth.CurrentUserFromContext(r.Context()),
		req.Title, req.Description, req.Level)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

// HandleUpdate overwrites title, description and level.
//
// HTTP: PUT /api/study-sets/{id}
func (h *StudySetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req studySetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	set, err := h.sets.Update(r.Context(), auth.CurrentUserFromContext(r.Context()),
		chi.URLParam(r, "id"), req.Title, req.Description, req.Level)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// HandleDelete removes a study set and its flashcards.
//
// HTTP: DELETE /api/study-sets/{id}
// Returns 204 No Content on success.
func (h *StudySetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.sets.Delete(r.Context(), auth.CurrentUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail logs unexpected errors and writes the error response.
func (h *StudySetHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(h.logger, r, err)
	writeError(w, err)
}
