package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/studybuddy-app/studybuddy/internal/model"
	"github.com/studybuddy-app/studybuddy/internal/quiz"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
)

// handleQuizSocket streams session events (ticks, reveals, completion) to
// the client over a websocket until the session ends or the client
// disconnects.
func (h *Handler) handleQuizSocket(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	s := h.sessions.Get(chi.URLParam(r, "sessionID"), user.ID)
	if s == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := s.Subscribe()
	defer cancel()

	// reader goroutine: drain control frames, signal disconnect
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPongWait * 9 / 10)
	defer ping.Stop()

	for {
		select {
		case <-disconnected:
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
			if ev.State == quiz.StateCompleted {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session completed"))
				return
			}
		}
	}
}
