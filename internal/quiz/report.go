package quiz

import "math"

// Unanswered is the placeholder shown for questions a session ended
// without grading, typically after a timeout.
const Unanswered = "—"

// ReviewRow is one line of the per-question answer review.
type ReviewRow struct {
	QuestionID  int    `json:"questionId"`
	Text        string `json:"text"`
	Selected    string `json:"selected"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// Report summarizes a finished session for display and persistence.
type Report struct {
	ScorePercent       int         `json:"scorePercent"`
	CorrectCount       int         `json:"correctCount"`
	TotalQuestions     int         `json:"totalQuestions"`
	AnsweredCount      int         `json:"answeredCount"`
	TotalTimeMs        int64       `json:"totalTimeMs"`
	AverageTimeSeconds float64     `json:"averageTimeSeconds"`
	MessageKey         string      `json:"messageKey"`
	Review             []ReviewRow `json:"review"`
}

// BuildReport grades a full question sequence against the results recorded
// for it. Results cover a prefix of the sequence in presentation order;
// questions beyond the answered prefix count against the score and show as
// unanswered in the review.
func BuildReport(questions []Question, results []Result) Report {
	byID := make(map[int]Result, len(results))
	var correct int
	var totalMs int64
	for _, r := range results {
		byID[r.QuestionID] = r
		if r.IsCorrect {
			correct++
		}
		totalMs += r.TimeSpentMs
	}

	n := len(questions)
	review := make([]ReviewRow, 0, n)
	for _, q := range questions {
		row := ReviewRow{
			QuestionID:  q.ID,
			Text:        q.Text,
			Selected:    Unanswered,
			Correct:     q.Options[q.CorrectIndex],
			Explanation: q.Explanation,
		}
		if r, ok := byID[q.ID]; ok {
			row.Selected = q.Options[r.SelectedIndex]
			row.IsCorrect = r.IsCorrect
		}
		review = append(review, row)
	}

	denom := n
	if denom < 1 {
		denom = 1
	}
	return Report{
		ScorePercent:       int(math.Round(100 * float64(correct) / float64(denom))),
		CorrectCount:       correct,
		TotalQuestions:     n,
		AnsweredCount:      len(results),
		TotalTimeMs:        totalMs,
		AverageTimeSeconds: float64(totalMs) / float64(denom) / 1000,
		MessageKey:         messageKey(correct, denom),
		Review:             review,
	}
}

// messageKey picks the encouragement message bucket for a score.
func messageKey(correct, total int) string {
	pct := 100 * float64(correct) / float64(total)
	switch {
	case pct >= 90:
		return "report.excellent"
	case pct >= 80:
		return "report.great"
	case pct >= 70:
		return "report.good"
	case pct >= 60:
		return "report.fair"
	default:
		return "report.keep_practicing"
	}
}
