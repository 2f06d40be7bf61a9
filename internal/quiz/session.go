package quiz

import (
	"context"
	"sync"
	"time"
)

// State is the phase of the current question within a session.
type State string

const (
	StateAwaitingSelection State = "awaiting_selection"
	StateRevealed          State = "revealed"
	StateCompleted         State = "completed"
)

const noSelection = -1

// Event is pushed to subscribers on every observable session change.
type Event struct {
	Type             string `json:"type"` // tick, selected, revealed, advanced, completed
	State            State  `json:"state"`
	CurrentIndex     int    `json:"currentIndex"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

// View is a snapshot of session state for the API.
type View struct {
	State            State    `json:"state"`
	CurrentIndex     int      `json:"currentIndex"`
	TotalQuestions   int      `json:"totalQuestions"`
	Question         Question `json:"question"`
	SelectedIndex    *int     `json:"selectedIndex,omitempty"`
	RemainingSeconds int      `json:"remainingSeconds"`
	LastResult       *Result  `json:"lastResult,omitempty"`
}

// Session drives one run through a question sequence: one question at a
// time, single answer capture, grading, explanation reveal, advancement,
// and a countdown that forces completion at zero. The question sequence
// is shared read-only; results and timer state are owned by the session.
type Session struct {
	mu          sync.Mutex
	questions   []Question
	current     int
	selected    int
	revealed    bool
	results     []Result
	remaining   int
	completed   bool
	questionAt  time.Time
	now         func() time.Time
	done        chan struct{}
	subscribers map[chan Event]struct{}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock injects a clock for deterministic timestamps in tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session over an already-normalized question
// sequence with the given countdown, in seconds. The sequence must be
// non-empty; the normalizer's fallback guarantee ensures that.
func NewSession(questions []Question, limitSeconds int, opts ...SessionOption) *Session {
	s := &Session{
		questions:   questions,
		selected:    noSelection,
		remaining:   limitSeconds,
		now:         time.Now,
		done:        make(chan struct{}),
		subscribers: make(map[chan Event]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.questionAt = s.now()
	return s
}

// Start runs the once-per-second countdown until the session completes
// or ctx is cancelled. Completion stops the ticker immediately so no
// mutation happens after the terminal state.
func (s *Session) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				if s.Tick() {
					return
				}
			}
		}
	}()
}

// Tick decrements the countdown by one second and reports whether the
// session is now completed. Reaching zero forces completion; any question
// not yet submitted stays unanswered in the results.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return true
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.completeLocked()
		return true
	}
	s.broadcastLocked("tick")
	return false
}

// SelectOption records a pending selection for the current question.
// Valid only before the answer is submitted; repeated calls overwrite the
// previous pick. Returns false when the call was a no-op.
func (s *Session) SelectOption(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.revealed {
		return false
	}
	if index < 0 || index >= NumOptions {
		return false
	}
	s.selected = index
	s.broadcastLocked("selected")
	return true
}

// SubmitAnswer grades the pending selection against the current question
// and reveals the explanation. A call with no selection, or after the
// answer was already submitted, is a no-op returning ok=false.
func (s *Session) SubmitAnswer() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.revealed || s.selected == noSelection {
		return Result{}, false
	}
	q := s.questions[s.current]
	r := Result{
		QuestionID:    q.ID,
		SelectedIndex: s.selected,
		IsCorrect:     s.selected == q.CorrectIndex,
		TimeSpentMs:   s.now().Sub(s.questionAt).Milliseconds(),
	}
	s.results = append(s.results, r)
	s.revealed = true
	s.broadcastLocked("revealed")
	return r, true
}

// Advance moves past a revealed question: to the next one, or to the
// terminal Completed state when the last question was just revealed.
// Valid only in the revealed state; otherwise a no-op with ok=false.
func (s *Session) Advance() (completed bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || !s.revealed {
		return s.completed, false
	}
	if s.current == len(s.questions)-1 {
		s.completeLocked()
		return true, true
	}
	s.current++
	s.selected = noSelection
	s.revealed = false
	s.questionAt = s.now()
	s.broadcastLocked("advanced")
	return false, true
}

func (s *Session) completeLocked() {
	if s.completed {
		return
	}
	s.completed = true
	s.broadcastLocked("completed")
	close(s.done)
}

// Done is closed once the session reaches the Completed state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Questions returns the shared, read-only question sequence.
func (s *Session) Questions() []Question {
	return s.questions
}

// Results returns a copy of the results recorded so far.
func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// View snapshots the session for rendering.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		State:            s.stateLocked(),
		CurrentIndex:     s.current,
		TotalQuestions:   len(s.questions),
		Question:         s.questions[s.current],
		RemainingSeconds: s.remaining,
	}
	if s.selected != noSelection {
		sel := s.selected
		v.SelectedIndex = &sel
	}
	if s.revealed && len(s.results) > 0 {
		last := s.results[len(s.results)-1]
		v.LastResult = &last
	}
	return v
}

// Subscribe returns a channel of session events plus a cancel func the
// caller must invoke to avoid leaks. Slow subscribers have stale events
// dropped rather than blocking the session.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.eventLocked("state")
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) stateLocked() State {
	switch {
	case s.completed:
		return StateCompleted
	case s.revealed:
		return StateRevealed
	default:
		return StateAwaitingSelection
	}
}

func (s *Session) eventLocked(typ string) Event {
	return Event{
		Type:             typ,
		State:            s.stateLocked(),
		CurrentIndex:     s.current,
		RemainingSeconds: s.remaining,
	}
}

func (s *Session) broadcastLocked(typ string) {
	ev := s.eventLocked(typ)
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
