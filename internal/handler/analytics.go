package handler

import (
	"net/http"
	"strconv"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	attempts, err := h.store.ListAttempts(user.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if attempts == nil {
		attempts = []model.QuizAttempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	summary, err := h.store.PerformanceSummary(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
