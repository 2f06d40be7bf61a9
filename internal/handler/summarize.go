package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studybuddy-app/studybuddy/internal/extract"
	"github.com/studybuddy-app/studybuddy/internal/i18n"
	"github.com/studybuddy-app/studybuddy/internal/model"
)

// snapshot kinds written by the upload flow and read by quiz start and
// flashcard review.
const (
	snapshotQuiz       = "quiz"
	snapshotFlashcards = "flashcards"
)

func (h *Handler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, i18n.T(r.Context(), "error.upload_too_large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := extract.Text(header.Filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			writeError(w, http.StatusUnsupportedMediaType, i18n.T(r.Context(), "error.unsupported_format"))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "document contains no readable text")
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	// same document uploaded before: reuse the stored material
	if existing, err := h.store.GetStudySetByHash(user.ID, hash); err == nil && existing != nil {
		slog.Info("reusing study set for known document", "user", user.Username, "set", existing.ID)
		h.stash(r, user.ID, existing)
		writeJSON(w, http.StatusOK, existing)
		return
	}

	// collapse concurrent uploads of the same document into one generation
	key := fmt.Sprintf("%d:%s", user.ID, hash)
	v, err, _ := h.generate.Do(key, func() (any, error) {
		generated, err := h.llm.GenerateStudySet(r.Context(), text)
		if err != nil {
			return nil, err
		}
		set := model.StudySet{
			UserID:       user.ID,
			SourceName:   header.Filename,
			SourceHash:   hash,
			Summary:      generated.Summary,
			KeyTakeaways: generated.KeyTakeaways,
			Flashcards:   generated.Flashcards,
			Quiz:         generated.RawQuiz,
		}
		id, err := h.store.CreateStudySet(set)
		if err != nil {
			return nil, err
		}
		set.ID = id
		return &set, nil
	})
	if err != nil {
		slog.Error("study set generation failed", "user", user.Username, "file", header.Filename, "error", err)
		writeError(w, http.StatusBadGateway, i18n.T(r.Context(), "error.generation_failed"))
		return
	}

	set := v.(*model.StudySet)
	h.stash(r, user.ID, set)
	slog.Info("generated study set", "user", user.Username, "set", set.ID, "source", header.Filename)
	writeJSON(w, http.StatusCreated, set)
}

// stash parks the freshest material in the snapshot store so quiz start
// and flashcard review can pick it up without a set ID.
func (h *Handler) stash(r *http.Request, userID int64, set *model.StudySet) {
	ctx := r.Context()
	if len(set.Quiz) > 0 {
		if err := h.snapshots.Put(ctx, userID, snapshotQuiz, set.Quiz); err != nil {
			slog.Warn("stash quiz snapshot", "error", err)
		}
	}
	if cards, err := json.Marshal(set.Flashcards); err == nil {
		if err := h.snapshots.Put(ctx, userID, snapshotFlashcards, cards); err != nil {
			slog.Warn("stash flashcards snapshot", "error", err)
		}
	}
}

func (h *Handler) handleListStudySets(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	sets, err := h.store.ListStudySets(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sets == nil {
		sets = []model.StudySet{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (h *Handler) handleGetStudySet(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "setID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid study set ID")
		return
	}

	set, err := h.store.GetStudySet(user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if set == nil {
		writeError(w, http.StatusNotFound, "study set not found")
		return
	}
	writeJSON(w, http.StatusOK, set)
}
