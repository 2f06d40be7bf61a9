package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/singleflight"

	"github.com/studybuddy-app/studybuddy/internal/auth"
	"github.com/studybuddy-app/studybuddy/internal/llm"
	"github.com/studybuddy-app/studybuddy/internal/model"
	"github.com/studybuddy-app/studybuddy/internal/quiz"
	"github.com/studybuddy-app/studybuddy/internal/snapshot"
	"github.com/studybuddy-app/studybuddy/internal/store"
)

// Generator produces study material from document text.
type Generator interface {
	GenerateStudySet(ctx context.Context, text string) (*llm.GeneratedSet, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	llm       Generator
	snapshots snapshot.Store
	sessions  *quiz.Manager
	auth      *auth.Service
	config    model.AppConfig

	generate singleflight.Group
	upgrader websocket.Upgrader
}

// New creates a new Handler.
func New(s *store.Store, g Generator, snaps snapshot.Store, sessions *quiz.Manager, a *auth.Service, cfg model.AppConfig) *Handler {
	return &Handler{
		store:     s,
		llm:       g,
		snapshots: snaps,
		sessions:  sessions,
		auth:      a,
		config:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", h.handleSignup)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware(h.store))

			r.Post("/summarize", h.handleSummarize)
			r.Get("/studysets", h.handleListStudySets)
			r.Get("/studysets/{setID}", h.handleGetStudySet)
			r.Get("/flashcards", h.handleFlashcards)

			r.Post("/quiz/start", h.handleStartQuiz)
			r.Get("/quiz/{sessionID}", h.handleQuizView)
			r.Post("/quiz/{sessionID}/select", h.handleSelectOption)
			r.Post("/quiz/{sessionID}/submit", h.handleSubmitAnswer)
			r.Post("/quiz/{sessionID}/advance", h.handleAdvance)
			r.Get("/quiz/{sessionID}/report", h.handleReport)
			r.Get("/quiz/{sessionID}/ws", h.handleQuizSocket)

			r.Get("/tasks", h.handleListTasks)
			r.Post("/tasks", h.handleCreateTask)
			r.Put("/tasks/{taskID}", h.handleUpdateTask)
			r.Delete("/tasks/{taskID}", h.handleDeleteTask)

			r.Post("/pomodoro", h.handleLogPomodoro)
			r.Get("/pomodoro/stats", h.handlePomodoroStats)

			r.Get("/history", h.handleHistory)
			r.Get("/performance", h.handlePerformance)
		})
	})
}
