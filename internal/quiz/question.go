package quiz

// NumOptions is the fixed number of answer options every rendered
// question carries. Shorter option lists are padded, longer ones cut.
const NumOptions = 4

// Difficulty is a coarse per-question difficulty label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is the canonical question form: exactly NumOptions non-empty
// options and a correct index that is always in range. IDs are assigned
// by output position when a raw payload is normalized, so they are
// contiguous starting at 1 even when source items were dropped.
type Question struct {
	ID           int        `json:"id"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Explanation  string     `json:"explanation"`
	Difficulty   Difficulty `json:"difficulty"`
	Category     string     `json:"category"`
}

// Result records one graded answer. Entries are appended in presentation
// order and never modified afterwards.
type Result struct {
	QuestionID    int   `json:"questionId"`
	SelectedIndex int   `json:"selectedIndex"`
	IsCorrect     bool  `json:"isCorrect"`
	TimeSpentMs   int64 `json:"timeSpentMs"`
}
