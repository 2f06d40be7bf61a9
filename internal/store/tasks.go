package store

import (
	"database/sql"
	"time"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

// CreateTask inserts a task. The caller assigns the ID.
func (s *Store) CreateTask(t model.Task) error {
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, user_id, title, description, date, time, type, priority, hours_per_day, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Description, t.Date, t.Time, t.Type, t.Priority, t.HoursPerDay, t.Completed, time.Now(),
	)
	return err
}

// GetTask returns one of the user's tasks by ID.
func (s *Store) GetTask(userID int64, id string) (*model.Task, error) {
	var t model.Task
	err := s.db.QueryRow(
		`SELECT id, user_id, title, description, date, time, type, priority, hours_per_day, completed, created_at
		 FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.Time, &t.Type, &t.Priority, &t.HoursPerDay, &t.Completed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns the user's tasks, optionally filtered to one date,
// ordered by date then time.
func (s *Store) ListTasks(userID int64, date string) ([]model.Task, error) {
	query := `SELECT id, user_id, title, description, date, time, type, priority, hours_per_day, completed, created_at
		 FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if date != "" {
		query += ` AND date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date, time, created_at`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.Time, &t.Type, &t.Priority, &t.HoursPerDay, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites all mutable fields of one of the user's tasks.
// Returns false when no such task exists.
func (s *Store) UpdateTask(t model.Task) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, date = ?, time = ?, type = ?, priority = ?, hours_per_day = ?, completed = ?
		 WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.Date, t.Time, t.Type, t.Priority, t.HoursPerDay, t.Completed, t.ID, t.UserID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteTask removes one of the user's tasks. Returns false when no such
// task exists.
func (s *Store) DeleteTask(userID int64, id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
