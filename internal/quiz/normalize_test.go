package quiz

import (
	"fmt"
	"reflect"
	"testing"
)

func testFallback() Question {
	return Question{
		ID:           1,
		Text:         "What is the capital of France?",
		Options:      []string{"Paris", "London", "Berlin", "Madrid"},
		CorrectIndex: 0,
		Explanation:  "Paris is the capital of France.",
		Difficulty:   DifficultyEasy,
		Category:     "General",
	}
}

func TestNormalizeOptionShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "string array",
			data: `[{"question":"Q","options":["A1","B1","C1","D1"],"answerIndex":0}]`,
			want: []string{"A1", "B1", "C1", "D1"},
		},
		{
			name: "record array with text field",
			data: `[{"question":"Q","options":[{"text":"A1"},{"text":"B1"},{"text":"C1"},{"text":"D1"}],"answerIndex":0}]`,
			want: []string{"A1", "B1", "C1", "D1"},
		},
		{
			name: "record array with value field",
			data: `[{"question":"Q","options":[{"value":"A1"},{"value":"B1"},{"value":"C1"},{"value":"D1"}],"answerIndex":0}]`,
			want: []string{"A1", "B1", "C1", "D1"},
		},
		{
			name: "record array falls through to first string field",
			data: `[{"question":"Q","options":[{"label":"A1","weight":2},{"label":"B1"},{"label":"C1"},{"label":"D1"}],"answerIndex":0}]`,
			want: []string{"A1", "B1", "C1", "D1"},
		},
		{
			name: "keyed object sorts by key",
			data: `[{"question":"Q","options":{"D":"D1","B":"B1","A":"A1","C":"C1"},"answerIndex":0}]`,
			want: []string{"A1", "B1", "C1", "D1"},
		},
		{
			name: "whitespace trimmed and blanks skipped",
			data: `[{"question":"Q","options":["  A1  ","","B1","C1","D1"],"answerIndex":0}]`,
			want: []string{"A1", "B1", "C1", "D1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, stats := Normalize([]byte(tt.data), testFallback())
			if stats.FallbackUsed {
				t.Fatal("fallback used for usable payload")
			}
			if len(qs) != 1 {
				t.Fatalf("got %d questions, want 1", len(qs))
			}
			if !reflect.DeepEqual(qs[0].Options, tt.want) {
				t.Errorf("options = %v, want %v", qs[0].Options, tt.want)
			}
		})
	}
}

func TestNormalizePadsAndTruncates(t *testing.T) {
	data := `[
		{"question":"Two options","options":["A","B"],"answerIndex":1},
		{"question":"Six options","options":["1","2","3","4","5","6"],"answerIndex":0}
	]`
	qs, _ := Normalize([]byte(data), testFallback())
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}

	want := []string{"A", "B", "Option 3", "Option 4"}
	if !reflect.DeepEqual(qs[0].Options, want) {
		t.Errorf("padded options = %v, want %v", qs[0].Options, want)
	}
	if got := qs[1].Options; len(got) != NumOptions {
		t.Errorf("truncated options length = %d, want %d", len(got), NumOptions)
	}
	if qs[1].Options[3] != "4" {
		t.Errorf("truncation kept %q in last slot, want %q", qs[1].Options[3], "4")
	}
}

func TestPadOptionsIdempotent(t *testing.T) {
	once := padOptions([]string{"A", "B"})
	twice := padOptions(append([]string(nil), once...))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("padding not idempotent: %v vs %v", once, twice)
	}
	if len(once) != NumOptions {
		t.Errorf("padded length = %d, want %d", len(once), NumOptions)
	}
}

func TestResolveAnswer(t *testing.T) {
	options := []string{"Red", "Green", "Blue", "Yellow"}
	tests := []struct {
		name     string
		item     map[string]any
		want     int
		resolved bool
	}{
		{"numeric index", map[string]any{"answerIndex": float64(2)}, 2, true},
		{"out of range index ignored", map[string]any{"answerIndex": float64(7)}, 0, false},
		{"fractional index ignored", map[string]any{"answerIndex": 1.5}, 0, false},
		{"negative index ignored", map[string]any{"answerIndex": float64(-1)}, 0, false},
		{"letter uppercase", map[string]any{"answer": "B"}, 1, true},
		{"letter lowercase", map[string]any{"answer": "c"}, 2, true},
		{"option text exact match", map[string]any{"correct": "Blue"}, 2, true},
		{"option text with whitespace", map[string]any{"correct": "  Green  "}, 1, true},
		{"unmatched text defaults", map[string]any{"answer": "Purple"}, 0, false},
		{"no candidate fields", map[string]any{}, 0, false},
		{
			name:     "priority order wins over later keys",
			item:     map[string]any{"answerIndex": float64(3), "correctOption": "A", "answer": "Red"},
			want:     3,
			resolved: true,
		},
		{
			name:     "unresolvable candidate falls through to next key",
			item:     map[string]any{"answerIndex": "maybe", "correctIndex": float64(1)},
			want:     1,
			resolved: true,
		},
		{
			name:     "index zero resolves as answered",
			item:     map[string]any{"answerIndex": float64(0)},
			want:     0,
			resolved: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, resolved := resolveAnswer(options, tt.item)
			if got != tt.want || resolved != tt.resolved {
				t.Errorf("resolveAnswer = (%d, %v), want (%d, %v)", got, resolved, tt.want, tt.resolved)
			}
		})
	}
}

func TestLetterToIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"A", 0, true},
		{"B", 1, true},
		{"d", 3, true},
		{"Z", 25, true},
		{"", 0, false},
		{"AB", 0, false},
		{"1", 0, false},
	}
	for _, tt := range tests {
		got, ok := letterToIndex(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("letterToIndex(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeDropsUnusableItems(t *testing.T) {
	data := `[
		{"question":"No options at all","answerIndex":0},
		{"question":"Empty options","options":[],"answerIndex":0},
		{"question":"Numeric options","options":[1,2,3,4],"answerIndex":0},
		{"question":"Good","options":["A","B","C","D"],"answerIndex":0}
	]`
	qs, stats := Normalize([]byte(data), testFallback())
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if stats.Dropped != 3 {
		t.Errorf("stats.Dropped = %d, want 3", stats.Dropped)
	}
	if qs[0].Text != "Good" {
		t.Errorf("kept question %q, want %q", qs[0].Text, "Good")
	}
	if qs[0].ID != 1 {
		t.Errorf("kept question ID = %d, want 1 after drops", qs[0].ID)
	}
}

func TestNormalizeContiguousIDs(t *testing.T) {
	data := `[
		{"question":"Q1","options":["A","B","C","D"],"answerIndex":0},
		{"question":"Unusable"},
		{"question":"Q3","options":["A","B","C","D"],"answerIndex":1},
		{"question":"Q4","options":["A","B","C","D"],"answerIndex":2}
	]`
	qs, _ := Normalize([]byte(data), testFallback())
	if len(qs) != 3 {
		t.Fatalf("got %d questions, want 3", len(qs))
	}
	for i, q := range qs {
		if q.ID != i+1 {
			t.Errorf("question %d has ID %d, want %d", i, q.ID, i+1)
		}
	}
}

func TestNormalizeFallback(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"not an array", `{"question":"Q"}`},
		{"empty array", `[]`},
		{"all items unusable", `[{"question":"Q"},{"options":[]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, stats := Normalize([]byte(tt.data), testFallback())
			if !stats.FallbackUsed {
				t.Fatal("expected fallback to be used")
			}
			if len(qs) != 1 || qs[0].Text != testFallback().Text {
				t.Errorf("got %v, want the fallback question alone", qs)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	data := `[{"options":["Alpha","Beta","Gamma","Delta"]}]`
	qs, stats := Normalize([]byte(data), testFallback())
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	if q.Text != "Question 1" {
		t.Errorf("text = %q, want %q", q.Text, "Question 1")
	}
	if q.CorrectIndex != 0 {
		t.Errorf("correctIndex = %d, want 0", q.CorrectIndex)
	}
	if stats.AnswerDefaults != 1 {
		t.Errorf("stats.AnswerDefaults = %d, want 1", stats.AnswerDefaults)
	}
	if want := fmt.Sprintf("The correct answer is %q.", "Alpha"); q.Explanation != want {
		t.Errorf("explanation = %q, want %q", q.Explanation, want)
	}
	if q.Category != "General" {
		t.Errorf("category = %q, want %q", q.Category, "General")
	}
}

func TestNormalizeFallbackTextUsesInputPosition(t *testing.T) {
	data := `[
		{"question":"Unusable"},
		{"options":["A","B","C","D"],"answerIndex":0}
	]`
	qs, _ := Normalize([]byte(data), testFallback())
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if qs[0].Text != "Question 2" {
		t.Errorf("text = %q, want %q", qs[0].Text, "Question 2")
	}
}

func TestInferDifficulty(t *testing.T) {
	short := []string{"a", "b", "c", "d"}
	tests := []struct {
		name    string
		text    string
		options []string
		want    Difficulty
	}{
		{"short is easy", "Short question?", short, DifficultyEasy},
		{"medium length", string(make([]byte, 150)), short, DifficultyMedium},
		{"long is hard", string(make([]byte, 300)), short, DifficultyHard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferDifficulty(tt.text, tt.options); got != tt.want {
				t.Errorf("InferDifficulty = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeSuppliedDifficultyWins(t *testing.T) {
	data := `[{"question":"Short","options":["A","B","C","D"],"answerIndex":0,"difficulty":"HARD"}]`
	qs, _ := Normalize([]byte(data), testFallback())
	if qs[0].Difficulty != DifficultyHard {
		t.Errorf("difficulty = %q, want %q", qs[0].Difficulty, DifficultyHard)
	}
}

func TestNormalizeNumericZeroAnswer(t *testing.T) {
	data := `[{"question":"Q1","options":["A","B"],"answer":0,"explanation":"because"}]`
	qs, stats := Normalize([]byte(data), testFallback())
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	want := []string{"A", "B", "Option 3", "Option 4"}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("options = %v, want %v", q.Options, want)
	}
	if q.CorrectIndex != 0 {
		t.Errorf("correctIndex = %d, want 0", q.CorrectIndex)
	}
	if q.Explanation != "because" {
		t.Errorf("explanation = %q, want %q", q.Explanation, "because")
	}
	if stats.AnswerDefaults != 0 {
		t.Errorf("numeric zero answer counted as default: %+v", stats)
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	data := `[{"question":"Pick one","options":["A","B"],"answer":"B","category":"Math"}]`
	qs, stats := Normalize([]byte(data), testFallback())
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	want := []string{"A", "B", "Option 3", "Option 4"}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("options = %v, want %v", q.Options, want)
	}
	if q.CorrectIndex != 1 {
		t.Errorf("correctIndex = %d, want 1", q.CorrectIndex)
	}
	if q.Category != "Math" {
		t.Errorf("category = %q, want %q", q.Category, "Math")
	}
	if stats.AnswerDefaults != 0 || stats.Dropped != 0 || stats.FallbackUsed {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
