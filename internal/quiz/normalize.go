package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Stats reports how much repair the normalizer had to do. AnswerDefaults
// in particular can indicate a generation defect upstream: a malformed
// answer field silently makes option A "correct".
type Stats struct {
	Dropped        int  // items with no recoverable options
	AnswerDefaults int  // questions whose correct index fell back to 0
	FallbackUsed   bool // nothing survived; the fallback question was substituted
}

// answerKeys are the raw fields consulted for the correct answer,
// first match wins.
var answerKeys = [...]string{"answerIndex", "correctIndex", "correctOption", "answer", "correct"}

// Normalize turns a raw generated quiz payload into a canonical question
// sequence. It never fails: malformed items are dropped, and when nothing
// usable remains the caller-supplied fallback question is returned alone,
// so a session can always start.
func Normalize(data []byte, fallback Question) ([]Question, Stats) {
	var stats Stats

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		items = nil
	}

	out := make([]Question, 0, len(items))
	for i, item := range items {
		raw, _ := item.(map[string]any)

		options := normalizeOptions(raw["options"])
		if len(options) == 0 {
			stats.Dropped++
			continue
		}
		options = padOptions(options)

		correct, resolved := resolveAnswer(options, raw)
		if !resolved {
			stats.AnswerDefaults++
		}

		text := cleanText(raw["question"])
		if text == "" {
			text = fmt.Sprintf("Question %d", i+1)
		}

		explanation := cleanText(raw["explanation"])
		if explanation == "" {
			explanation = fmt.Sprintf("The correct answer is %q.", options[correct])
		}

		difficulty := parseDifficulty(raw["difficulty"])
		if difficulty == "" {
			difficulty = InferDifficulty(text, options)
		}

		category := cleanText(raw["category"])
		if category == "" {
			category = "General"
		}

		out = append(out, Question{
			ID:           len(out) + 1,
			Text:         text,
			Options:      options,
			CorrectIndex: correct,
			Explanation:  explanation,
			Difficulty:   difficulty,
			Category:     category,
		})
	}

	if len(out) == 0 {
		stats.FallbackUsed = true
		return []Question{fallback}, stats
	}
	return out, stats
}

// normalizeOptions extracts an ordered list of display strings from one of
// the shapes the generation service is known to emit: a string array, an
// array of records, or a keyed record like {"A": "...", "B": "..."}.
// Anything else is unusable and yields nil.
func normalizeOptions(v any) []string {
	switch input := v.(type) {
	case []any:
		if len(input) == 0 {
			return nil
		}
		switch input[0].(type) {
		case string:
			out := make([]string, 0, len(input))
			for _, e := range input {
				s, ok := e.(string)
				if !ok {
					continue
				}
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
			}
			return out
		case map[string]any:
			out := make([]string, 0, len(input))
			for _, e := range input {
				obj, ok := e.(map[string]any)
				if !ok || obj == nil {
					continue
				}
				if t := recordDisplayString(obj); t != "" {
					out = append(out, t)
				}
			}
			return out
		default:
			return nil
		}
	case map[string]any:
		// Keyed record: lettered keys (A/B/C/D) sort into display order.
		keys := make([]string, 0, len(input))
		for k := range input {
			if _, ok := input[k].(string); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			if t := strings.TrimSpace(input[k].(string)); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		return nil
	}
}

// recordDisplayString picks the display text out of one option record:
// a string "text" field wins, then "value", then the first string-valued
// field in key order.
func recordDisplayString(obj map[string]any) string {
	if s, ok := obj["text"].(string); ok {
		return strings.TrimSpace(s)
	}
	if s, ok := obj["value"].(string); ok {
		return strings.TrimSpace(s)
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if _, ok := obj[k].(string); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t := strings.TrimSpace(obj[k].(string)); t != "" {
			return t
		}
	}
	return ""
}

// padOptions truncates to NumOptions entries and fills missing slots with
// "Option {k}" placeholders so every question renders four choices.
func padOptions(options []string) []string {
	if len(options) > NumOptions {
		options = options[:NumOptions]
	}
	for len(options) < NumOptions {
		options = append(options, fmt.Sprintf("Option %d", len(options)+1))
	}
	return options
}

// resolveAnswer maps whatever answer encoding the item carries onto an
// index into options. The second return value is false when no candidate
// field resolved and the default of 0 was used.
func resolveAnswer(options []string, item map[string]any) (int, bool) {
	for _, key := range answerKeys {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if idx, ok := valueToIndex(v, options); ok {
			return idx, true
		}
	}
	return 0, false
}

// valueToIndex resolves a single candidate value: an in-range number, a
// single answer letter, or the literal text of one of the options.
func valueToIndex(v any, options []string) (int, bool) {
	switch val := v.(type) {
	case float64:
		idx := int(val)
		if float64(idx) == val && idx >= 0 && idx < len(options) {
			return idx, true
		}
	case string:
		s := strings.TrimSpace(val)
		if idx, ok := letterToIndex(s); ok && idx < len(options) {
			return idx, true
		}
		for i, opt := range options {
			if strings.TrimSpace(opt) == s {
				return i, true
			}
		}
	}
	return 0, false
}

// letterToIndex maps a single letter to an option index (A -> 0).
func letterToIndex(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch c := s[0]; {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	}
	return 0, false
}

// InferDifficulty derives a difficulty label from combined content length.
// Used only when the source item did not supply one.
func InferDifficulty(text string, options []string) Difficulty {
	n := len(text) + len(strings.Join(options, " "))
	switch {
	case n < 120:
		return DifficultyEasy
	case n < 280:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

func parseDifficulty(v any) Difficulty {
	s, _ := v.(string)
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyMedium:
		return DifficultyMedium
	case DifficultyHard:
		return DifficultyHard
	}
	return ""
}

func cleanText(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
