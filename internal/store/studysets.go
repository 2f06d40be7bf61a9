package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

// CreateStudySet stores a generated study set. Takeaways and flashcards
// are kept as JSON text columns.
func (s *Store) CreateStudySet(set model.StudySet) (int64, error) {
	takeaways, err := json.Marshal(set.KeyTakeaways)
	if err != nil {
		return 0, fmt.Errorf("marshal takeaways: %w", err)
	}
	flashcards, err := json.Marshal(set.Flashcards)
	if err != nil {
		return 0, fmt.Errorf("marshal flashcards: %w", err)
	}
	quiz := set.Quiz
	if len(quiz) == 0 {
		quiz = json.RawMessage("[]")
	}

	res, err := s.db.Exec(
		`INSERT INTO study_sets (user_id, source_name, source_hash, summary, key_takeaways, flashcards, quiz, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		set.UserID, set.SourceName, set.SourceHash, set.Summary, string(takeaways), string(flashcards), string(quiz), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetStudySet returns one of the user's study sets by ID.
func (s *Store) GetStudySet(userID, id int64) (*model.StudySet, error) {
	return s.scanStudySet(s.db.QueryRow(
		`SELECT id, user_id, source_name, source_hash, summary, key_takeaways, flashcards, quiz, created_at
		 FROM study_sets WHERE id = ? AND user_id = ?`, id, userID,
	))
}

// GetStudySetByHash returns the user's study set generated from a source
// with the given content hash, if one exists. Used to skip regeneration
// when the same document is uploaded again.
func (s *Store) GetStudySetByHash(userID int64, hash string) (*model.StudySet, error) {
	return s.scanStudySet(s.db.QueryRow(
		`SELECT id, user_id, source_name, source_hash, summary, key_takeaways, flashcards, quiz, created_at
		 FROM study_sets WHERE user_id = ? AND source_hash = ?
		 ORDER BY created_at DESC LIMIT 1`, userID, hash,
	))
}

// ListStudySets returns the user's study sets, newest first, without the
// heavyweight quiz and flashcard payloads.
func (s *Store) ListStudySets(userID int64) ([]model.StudySet, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, source_name, source_hash, summary, key_takeaways, created_at
		 FROM study_sets WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.StudySet
	for rows.Next() {
		var set model.StudySet
		var takeaways string
		if err := rows.Scan(&set.ID, &set.UserID, &set.SourceName, &set.SourceHash, &set.Summary, &takeaways, &set.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(takeaways), &set.KeyTakeaways); err != nil {
			return nil, fmt.Errorf("unmarshal takeaways: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (s *Store) scanStudySet(row *sql.Row) (*model.StudySet, error) {
	var set model.StudySet
	var takeaways, flashcards, quiz string
	err := row.Scan(&set.ID, &set.UserID, &set.SourceName, &set.SourceHash, &set.Summary, &takeaways, &flashcards, &quiz, &set.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(takeaways), &set.KeyTakeaways); err != nil {
		return nil, fmt.Errorf("unmarshal takeaways: %w", err)
	}
	if err := json.Unmarshal([]byte(flashcards), &set.Flashcards); err != nil {
		return nil, fmt.Errorf("unmarshal flashcards: %w", err)
	}
	set.Quiz = json.RawMessage(quiz)
	return &set, nil
}
