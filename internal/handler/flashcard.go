package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/flashcard/internal/auth"
	"github.com/sakif/flashcard/internal/model"
	"github.com/sakif/flashcard/internal/policy"
	"github.com/sakif/flashcard/internal/service"
)

// FlashcardHandler serves the flashcards of a study set
// (/api/study-sets/{id}/flashcards) and single cards (/api/flashcards/{id}).
type FlashcardHandler struct {
	cards  *service.FlashcardService
	logger *slog.Logger
}

func NewFlashcardHandler(cards *service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	return &FlashcardHandler{cards: cards, logger: logger}
}

type flashcardRequest struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	ImageURL   string `json:"imageUrl"`
}

// StudySetFlashcards is the body of GET /api/study-sets/{id}/flashcards:
// the parent set together with its cards.
type StudySetFlashcards struct {
	StudySet   *model.StudySet   `json:"studySet"`
	Flashcards []model.Flashcard `json:"flashcards"`
}

// HandleList returns a study set and its flashcards, newest first.
//
// HTTP: GET /api/study-sets/{id}/flashcards
func (h *FlashcardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	set, cards, err := h.cards.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StudySetFlashcards{StudySet: set, Flashcards: cards})
}

// HandleCreate adds a flashcard to the study set in the URL.
//
// HTTP: POST /api/study-sets/{id}/flashcards
// REQUEST BODY: {"term": "hola", "definition": "hello", "imageUrl": ""}
func (h *FlashcardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req flashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cards.Create(r.Context(), auth.CurrentUserFromContext(r.Context()),
		chi.URLParam(r, "id"), req.Term, req.Definition, req.ImageURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// HandleGetByID returns one flashcard to its author only.
//
// HTTP: GET /api/flashcards/{id}
func (h *FlashcardHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Get(r.Context(), auth.CurrentUserFromContext(r.Context()),
		chi.URLParam(r, "id"), policy.EnforceOwnership)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandleUpdate overwrites term, definition and image URL.
//
// HTTP: PUT /api/flashcards/{id}
func (h *FlashcardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req flashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cards.Update(r.Context(), auth.CurrentUserFromContext(r.Context()),
		chi.URLParam(r, "id"), req.Term, req.Definition, req.ImageURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandleDelete removes a flashcard. The deleted card is returned so the
// client knows which study set to go back to.
//
// HTTP: DELETE /api/flashcards/{id}
func (h *FlashcardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Delete(r.Context(), auth.CurrentUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// fail logs unexpected errors and writes the error response.
func (h *FlashcardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(h.logger, r, err)
	writeError(w, err)
}
