package quiz

import "testing"

func resultsWithCorrect(t *testing.T, questions []Question, correct int) []Result {
	t.Helper()
	results := make([]Result, 0, len(questions))
	for i, q := range questions {
		sel := q.CorrectIndex
		if i >= correct {
			sel = (q.CorrectIndex + 1) % NumOptions
		}
		results = append(results, Result{
			QuestionID:    q.ID,
			SelectedIndex: sel,
			IsCorrect:     sel == q.CorrectIndex,
			TimeSpentMs:   4000,
		})
	}
	return results
}

func TestBuildReportScoring(t *testing.T) {
	questions := testQuestions(t, 4)
	tests := []struct {
		name    string
		correct int
		percent int
		key     string
	}{
		{"all correct", 4, 100, "report.excellent"},
		{"three of four", 3, 75, "report.good"},
		{"half", 2, 50, "report.keep_practicing"},
		{"none", 0, 0, "report.keep_practicing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BuildReport(questions, resultsWithCorrect(t, questions, tt.correct))
			if r.ScorePercent != tt.percent {
				t.Errorf("ScorePercent = %d, want %d", r.ScorePercent, tt.percent)
			}
			if r.CorrectCount != tt.correct {
				t.Errorf("CorrectCount = %d, want %d", r.CorrectCount, tt.correct)
			}
			if r.MessageKey != tt.key {
				t.Errorf("MessageKey = %q, want %q", r.MessageKey, tt.key)
			}
		})
	}
}

func TestBuildReportTiming(t *testing.T) {
	questions := testQuestions(t, 4)
	r := BuildReport(questions, resultsWithCorrect(t, questions, 2))
	if r.TotalTimeMs != 16000 {
		t.Errorf("TotalTimeMs = %d, want 16000", r.TotalTimeMs)
	}
	if r.AverageTimeSeconds != 4 {
		t.Errorf("AverageTimeSeconds = %v, want 4", r.AverageTimeSeconds)
	}
}

func TestBuildReportRounding(t *testing.T) {
	questions := testQuestions(t, 3)
	// 2/3 rounds to 67, 1/3 to 33
	if r := BuildReport(questions, resultsWithCorrect(t, questions, 2)); r.ScorePercent != 67 {
		t.Errorf("2/3 ScorePercent = %d, want 67", r.ScorePercent)
	}
	if r := BuildReport(questions, resultsWithCorrect(t, questions, 1)); r.ScorePercent != 33 {
		t.Errorf("1/3 ScorePercent = %d, want 33", r.ScorePercent)
	}
}

func TestBuildReportNoResults(t *testing.T) {
	questions := testQuestions(t, 3)
	r := BuildReport(questions, nil)
	if r.ScorePercent != 0 || r.AnsweredCount != 0 {
		t.Errorf("empty report = %+v", r)
	}
	if len(r.Review) != 3 {
		t.Fatalf("review rows = %d, want 3", len(r.Review))
	}
	for _, row := range r.Review {
		if row.Selected != Unanswered {
			t.Errorf("Selected = %q, want %q", row.Selected, Unanswered)
		}
	}
}

func TestBuildReportEmptyQuestions(t *testing.T) {
	r := BuildReport(nil, nil)
	if r.ScorePercent != 0 || r.TotalQuestions != 0 {
		t.Errorf("report over empty sequence = %+v", r)
	}
}

func TestBuildReportReviewContent(t *testing.T) {
	questions := testQuestions(t, 2)
	results := []Result{{
		QuestionID:    1,
		SelectedIndex: 2,
		IsCorrect:     false,
		TimeSpentMs:   1000,
	}}
	r := BuildReport(questions, results)
	if r.Review[0].Selected != "C" {
		t.Errorf("Selected = %q, want %q", r.Review[0].Selected, "C")
	}
	if r.Review[0].Correct != questions[0].Options[questions[0].CorrectIndex] {
		t.Errorf("Correct = %q", r.Review[0].Correct)
	}
	if r.Review[1].Selected != Unanswered {
		t.Errorf("unanswered Selected = %q, want %q", r.Review[1].Selected, Unanswered)
	}
}

func TestMessageKeyMonotonic(t *testing.T) {
	rank := map[string]int{
		"report.keep_practicing": 0,
		"report.fair":            1,
		"report.good":            2,
		"report.great":           3,
		"report.excellent":       4,
	}
	prev := -1
	for correct := 0; correct <= 10; correct++ {
		key := messageKey(correct, 10)
		r, ok := rank[key]
		if !ok {
			t.Fatalf("unknown message key %q", key)
		}
		if r < prev {
			t.Errorf("message rank decreased at %d/10: %q", correct, key)
		}
		prev = r
	}
}

func TestMessageKeyThresholds(t *testing.T) {
	tests := []struct {
		correct, total int
		want           string
	}{
		{9, 10, "report.excellent"},
		{8, 10, "report.great"},
		{7, 10, "report.good"},
		{6, 10, "report.fair"},
		{5, 10, "report.keep_practicing"},
		{10, 10, "report.excellent"},
	}
	for _, tt := range tests {
		if got := messageKey(tt.correct, tt.total); got != tt.want {
			t.Errorf("messageKey(%d, %d) = %q, want %q", tt.correct, tt.total, got, tt.want)
		}
	}
}
