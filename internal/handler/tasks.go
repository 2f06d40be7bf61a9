package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

type taskRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	Type        model.TaskType     `json:"type"`
	Priority    model.TaskPriority `json:"priority"`
	HoursPerDay float64            `json:"hoursPerDay"`
	Completed   bool               `json:"completed"`
}

func (t *taskRequest) validate() string {
	if strings.TrimSpace(t.Title) == "" {
		return "title is required"
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if t.Time != "" {
		if _, err := time.Parse("15:04", t.Time); err != nil {
			return "time must be HH:MM"
		}
	}
	if t.Type == "" {
		t.Type = model.TaskAssignment
	}
	if !model.ValidTaskType(t.Type) {
		return "unknown task type"
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if !model.ValidTaskPriority(t.Priority) {
		return "unknown priority"
	}
	if t.HoursPerDay < 0 || t.HoursPerDay > 24 {
		return "hoursPerDay out of range"
	}
	return ""
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	tasks, err := h.store.ListTasks(user.ID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Priority:    req.Priority,
		HoursPerDay: req.HoursPerDay,
		Completed:   req.Completed,
	}
	if err := h.store.CreateTask(task); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	created, err := h.store.GetTask(user.ID, task.ID)
	if err != nil || created == nil {
		writeError(w, http.StatusInternalServerError, "task not stored")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	taskID := chi.URLParam(r, "taskID")

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task := model.Task{
		ID:          taskID,
		UserID:      user.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Priority:    req.Priority,
		HoursPerDay: req.HoursPerDay,
		Completed:   req.Completed,
	}
	ok, err := h.store.UpdateTask(task)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	updated, err := h.store.GetTask(user.ID, taskID)
	if err != nil || updated == nil {
		writeError(w, http.StatusInternalServerError, "task not stored")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	ok, err := h.store.DeleteTask(user.ID, chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
