package handler

import (
	"net/http"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

type pomodoroRequest struct {
	TaskID      string              `json:"taskId"`
	Phase       model.PomodoroPhase `json:"phase"`
	DurationSec int                 `json:"durationSec"`
}

func (h *Handler) handleLogPomodoro(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var req pomodoroRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !model.ValidPomodoroPhase(req.Phase) {
		writeError(w, http.StatusBadRequest, "unknown phase")
		return
	}
	if req.DurationSec <= 0 || req.DurationSec > 4*60*60 {
		writeError(w, http.StatusBadRequest, "durationSec out of range")
		return
	}

	session := model.PomodoroSession{
		UserID:      user.ID,
		TaskID:      req.TaskID,
		Phase:       req.Phase,
		DurationSec: req.DurationSec,
	}
	id, err := h.store.InsertPomodoroSession(session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	session.ID = id
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handlePomodoroStats(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	stats, err := h.store.PomodoroStats(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
