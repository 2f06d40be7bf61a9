package store

import (
	"time"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

// InsertPomodoroSession records one completed timer run.
func (s *Store) InsertPomodoroSession(p model.PomodoroSession) (int64, error) {
	startedAt := p.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO pomodoro_sessions (user_id, task_id, phase, duration_sec, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.UserID, p.TaskID, p.Phase, p.DurationSec, startedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PomodoroStats aggregates the user's completed work sessions. Breaks do
// not count toward work time.
func (s *Store) PomodoroStats(userID int64) (*model.PomodoroStats, error) {
	var st model.PomodoroStats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(duration_sec), 0)
		 FROM pomodoro_sessions WHERE user_id = ? AND phase = ?`, userID, model.PhaseWork,
	).Scan(&st.Sessions, &st.TotalWorkSeconds)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(duration_sec), 0)
		 FROM pomodoro_sessions WHERE user_id = ? AND phase = ? AND date(started_at) = ?`,
		userID, model.PhaseWork, today,
	).Scan(&st.TodayWorkSeconds)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
