package store

import (
	"time"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

// InsertAttempt records a completed quiz session.
func (s *Store) InsertAttempt(a model.QuizAttempt) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO quiz_attempts (user_id, study_set_id, score_percent, correct_count, total_questions, total_time_ms, taken_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.StudySetID, a.ScorePercent, a.CorrectCount, a.TotalQuestions, a.TotalTimeMs, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttempts returns the user's quiz attempts, newest first.
func (s *Store) ListAttempts(userID int64, limit int) ([]model.QuizAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, user_id, study_set_id, score_percent, correct_count, total_questions, total_time_ms, taken_at
		 FROM quiz_attempts WHERE user_id = ? ORDER BY taken_at DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.StudySetID, &a.ScorePercent, &a.CorrectCount, &a.TotalQuestions, &a.TotalTimeMs, &a.TakenAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// PerformanceSummary aggregates all of the user's quiz attempts.
func (s *Store) PerformanceSummary(userID int64) (*model.PerformanceSummary, error) {
	var p model.PerformanceSummary
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(AVG(score_percent), 0),
		        COALESCE(MAX(score_percent), 0),
		        COALESCE(SUM(correct_count), 0),
		        COALESCE(SUM(total_questions), 0),
		        COALESCE(AVG(total_time_ms), 0) / 1000.0
		 FROM quiz_attempts WHERE user_id = ?`, userID,
	).Scan(&p.Attempts, &p.AverageScore, &p.BestScore, &p.TotalCorrect, &p.TotalQuestions, &p.AvgTimePerQuizS)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
