package llm

import (
	"strings"
	"testing"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

func TestBuildStudySetPrompt(t *testing.T) {
	prompt := buildStudySetPrompt()
	for _, field := range []string{"summary", "keyTakeaways", "flashcards", "quiz", "answerIndex"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt should mention %q", field)
		}
	}
	if !strings.Contains(prompt, "JSON") {
		t.Error("prompt should demand JSON output")
	}
}

func TestBuildExpandPrompt(t *testing.T) {
	prompt := buildExpandPrompt(350)
	if !strings.Contains(prompt, "350") {
		t.Error("prompt should state the word floor")
	}
	if !strings.Contains(prompt, "summary") {
		t.Error("prompt should ask for a summary field")
	}
}

func TestTruncateSource(t *testing.T) {
	short := "short document"
	if got := truncateSource(short); got != short {
		t.Errorf("short input changed: %q", got)
	}

	long := strings.Repeat("a", maxSourceChars+500)
	if got := truncateSource(long); len(got) != maxSourceChars {
		t.Errorf("truncated length = %d, want %d", len(got), maxSourceChars)
	}

	// multibyte rune straddling the cut must not be split
	runes := strings.Repeat("a", maxSourceChars-1) + "é" + strings.Repeat("b", 100)
	got := truncateSource(runes)
	if len(got) > maxSourceChars {
		t.Errorf("truncated length = %d, want <= %d", len(got), maxSourceChars)
	}
	if strings.ContainsRune(got, '�') || !strings.HasSuffix(got, "a") {
		t.Errorf("truncation split a rune: %q", got[len(got)-4:])
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"two  words\nhere", 3},
	}
	for _, tt := range tests {
		if got := wordCount(tt.in); got != tt.want {
			t.Errorf("wordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCleanFlashcards(t *testing.T) {
	in := []model.Flashcard{
		{Front: " Q1 ", Back: " A1 "},
		{Front: "", Back: "orphan"},
		{Front: "orphan", Back: "  "},
		{Front: "Q2", Back: "A2"},
	}
	got := cleanFlashcards(in)
	if len(got) != 2 {
		t.Fatalf("kept %d cards, want 2", len(got))
	}
	if got[0].Front != "Q1" || got[0].Back != "A1" {
		t.Errorf("first card not trimmed: %+v", got[0])
	}

	many := make([]model.Flashcard, maxFlashcards+5)
	for i := range many {
		many[i] = model.Flashcard{Front: "f", Back: "b"}
	}
	if got := cleanFlashcards(many); len(got) != maxFlashcards {
		t.Errorf("cap not applied: %d cards", len(got))
	}
}
