package model

import (
	"context"
	"encoding/json"
	"time"
)

// User represents a registered student account.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// TaskType classifies a study task.
type TaskType string

const (
	TaskAssignment TaskType = "assignment"
	TaskExam       TaskType = "exam"
	TaskProject    TaskType = "project"
	TaskReading    TaskType = "reading"
	TaskPractice   TaskType = "practice"
	TaskResearch   TaskType = "research"
)

// ValidTaskType reports whether t is a recognized task type.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskAssignment, TaskExam, TaskProject, TaskReading, TaskPractice, TaskResearch:
		return true
	}
	return false
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ValidTaskPriority reports whether p is a recognized priority.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a calendar/to-do entry.
// Date is "YYYY-MM-DD" and Time "HH:MM" as submitted by the client.
type Task struct {
	ID          string       `json:"id"`
	UserID      int64        `json:"-"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Date        string       `json:"date"`
	Time        string       `json:"time,omitempty"`
	Type        TaskType     `json:"type"`
	Priority    TaskPriority `json:"priority"`
	HoursPerDay float64      `json:"hoursPerDay"`
	Completed   bool         `json:"completed"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Flashcard is a single front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StudySet holds everything generated from one uploaded document.
// Quiz is kept as the raw generated JSON; the quiz package normalizes it
// when a session starts.
type StudySet struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"-"`
	SourceName   string          `json:"sourceName"`
	SourceHash   string          `json:"-"`
	Summary      string          `json:"summary"`
	KeyTakeaways []string        `json:"keyTakeaways"`
	Flashcards   []Flashcard     `json:"flashcards"`
	Quiz         json.RawMessage `json:"quiz"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// QuizAttempt is the persisted record of one completed quiz session.
type QuizAttempt struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"-"`
	StudySetID     int64     `json:"studySetId"`
	ScorePercent   int       `json:"scorePercent"`
	CorrectCount   int       `json:"correctCount"`
	TotalQuestions int       `json:"totalQuestions"`
	TotalTimeMs    int64     `json:"totalTimeMs"`
	TakenAt        time.Time `json:"takenAt"`
}

// PomodoroPhase identifies which part of the focus cycle a session covers.
type PomodoroPhase string

const (
	PhaseWork       PomodoroPhase = "work"
	PhaseShortBreak PomodoroPhase = "short_break"
	PhaseLongBreak  PomodoroPhase = "long_break"
)

// ValidPomodoroPhase reports whether p is a recognized phase.
func ValidPomodoroPhase(p PomodoroPhase) bool {
	switch p {
	case PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// PomodoroSession is one completed timer run, optionally linked to a task.
type PomodoroSession struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"-"`
	TaskID      string        `json:"taskId,omitempty"`
	Phase       PomodoroPhase `json:"phase"`
	DurationSec int           `json:"durationSec"`
	StartedAt   time.Time     `json:"startedAt"`
}

// PomodoroStats aggregates a user's completed focus sessions.
type PomodoroStats struct {
	Sessions         int `json:"sessions"`
	TotalWorkSeconds int `json:"totalWorkSeconds"`
	TodayWorkSeconds int `json:"todayWorkSeconds"`
}

// PerformanceSummary aggregates a user's quiz attempts for the dashboard.
type PerformanceSummary struct {
	Attempts        int     `json:"attempts"`
	AverageScore    float64 `json:"averageScore"`
	BestScore       int     `json:"bestScore"`
	TotalCorrect    int     `json:"totalCorrect"`
	TotalQuestions  int     `json:"totalQuestions"`
	AvgTimePerQuizS float64 `json:"avgTimePerQuizSeconds"`
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	QuizTimeLimitSec int    // countdown per quiz session, seconds
	MaxUploadBytes   int64  // multipart upload cap
	MinSummaryWords  int    // below this the generator runs an expand pass
	Lang             string // UI language for localized messages
}
