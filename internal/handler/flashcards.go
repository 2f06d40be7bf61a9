package handler

import (
	"errors"
	"net/http"

	"github.com/studybuddy-app/studybuddy/internal/i18n"
	"github.com/studybuddy-app/studybuddy/internal/model"
	"github.com/studybuddy-app/studybuddy/internal/snapshot"
)

// handleFlashcards serves the flashcards from the most recent upload.
func (h *Handler) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	cards, err := h.snapshots.Get(r.Context(), user.ID, snapshotFlashcards)
	if errors.Is(err, snapshot.ErrNotFound) {
		writeError(w, http.StatusNotFound, i18n.T(r.Context(), "error.no_study_material"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(cards)
}
