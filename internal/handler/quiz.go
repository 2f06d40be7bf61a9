package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studybuddy-app/studybuddy/internal/i18n"
	"github.com/studybuddy-app/studybuddy/internal/model"
	"github.com/studybuddy-app/studybuddy/internal/quiz"
	"github.com/studybuddy-app/studybuddy/internal/snapshot"
)

// fallbackQuestion is served when a generated quiz payload yields no
// usable questions, so a session can always start.
var fallbackQuestion = quiz.Question{
	ID:           1,
	Text:         "Which study habit is most effective for long-term retention?",
	Options:      []string{"Spaced repetition", "Cramming the night before", "Rereading once", "Highlighting everything"},
	CorrectIndex: 0,
	Explanation:  "Spacing reviews over time strengthens recall far more than a single marathon session.",
	Difficulty:   quiz.DifficultyEasy,
	Category:     "General",
}

type startQuizRequest struct {
	StudySetID int64 `json:"studySetId,omitempty"`
}

type startQuizResponse struct {
	SessionID string    `json:"sessionId"`
	View      quiz.View `json:"view"`
}

func (h *Handler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var req startQuizRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var raw []byte
	studySetID := req.StudySetID
	if studySetID > 0 {
		set, err := h.store.GetStudySet(user.ID, studySetID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if set == nil {
			writeError(w, http.StatusNotFound, "study set not found")
			return
		}
		raw = set.Quiz
	} else {
		var err error
		raw, err = h.snapshots.Get(r.Context(), user.ID, snapshotQuiz)
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, i18n.T(r.Context(), "error.no_study_material"))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	questions, stats := quiz.Normalize(raw, fallbackQuestion)
	if stats.Dropped > 0 || stats.AnswerDefaults > 0 || stats.FallbackUsed {
		slog.Warn("quiz payload needed repair",
			"user", user.Username,
			"dropped", stats.Dropped,
			"answerDefaults", stats.AnswerDefaults,
			"fallback", stats.FallbackUsed)
	}

	// the session outlives this request; its countdown must not stop
	// when the response is written
	sessionID, session := h.sessions.Create(context.Background(), user.ID, studySetID, questions, h.config.QuizTimeLimitSec)
	go h.persistOnCompletion(sessionID, user.ID, studySetID, session)

	slog.Info("quiz session started", "user", user.Username, "session", sessionID, "questions", len(questions))
	writeJSON(w, http.StatusCreated, startQuizResponse{SessionID: sessionID, View: session.View()})
}

// persistOnCompletion records the attempt whether the session ends by
// answering the last question or by the countdown running out.
func (h *Handler) persistOnCompletion(sessionID string, userID, studySetID int64, s *quiz.Session) {
	// a removed session never completes; don't wait on it forever
	limit := time.Duration(h.config.QuizTimeLimitSec)*time.Second + time.Minute
	select {
	case <-s.Done():
	case <-time.After(limit):
		slog.Warn("quiz session abandoned", "session", sessionID)
		return
	}
	report := quiz.BuildReport(s.Questions(), s.Results())
	_, err := h.store.InsertAttempt(model.QuizAttempt{
		UserID:         userID,
		StudySetID:     studySetID,
		ScorePercent:   report.ScorePercent,
		CorrectCount:   report.CorrectCount,
		TotalQuestions: report.TotalQuestions,
		TotalTimeMs:    report.TotalTimeMs,
	})
	if err != nil {
		slog.Error("persist quiz attempt", "session", sessionID, "error", err)
		return
	}
	slog.Info("quiz session completed", "session", sessionID, "score", report.ScorePercent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *quiz.Session {
	user := model.UserFromContext(r.Context())
	s := h.sessions.Get(chi.URLParam(r, "sessionID"), user.ID)
	if s == nil {
		writeError(w, http.StatusNotFound, i18n.T(r.Context(), "error.session_not_found"))
		return nil
	}
	return s
}

func (h *Handler) handleQuizView(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.SelectOption(req.Index) {
		writeError(w, http.StatusConflict, "selection not allowed in current state")
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	result, ok := s.SubmitAnswer()
	if !ok {
		writeError(w, http.StatusConflict, "nothing to submit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"view":   s.View(),
	})
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	completed, ok := s.Advance()
	if !ok {
		writeError(w, http.StatusConflict, "cannot advance before submitting an answer")
		return
	}
	resp := map[string]any{"completed": completed}
	if !completed {
		resp["view"] = s.View()
	}
	writeJSON(w, http.StatusOK, resp)
}

type reportResponse struct {
	quiz.Report
	Message string `json:"message"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if !s.Completed() {
		writeError(w, http.StatusConflict, "session still in progress")
		return
	}

	report := quiz.BuildReport(s.Questions(), s.Results())
	writeJSON(w, http.StatusOK, reportResponse{
		Report:  report,
		Message: i18n.T(r.Context(), report.MessageKey),
	})
}
