package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/studybuddy-app/studybuddy/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// maxSourceChars caps how much of an uploaded document is sent to the
// model. Longer documents are truncated, not chunked.
const maxSourceChars = 20000

// maxFlashcards caps the number of flashcards kept from a response.
const maxFlashcards = 20

// GeneratedSet is the parsed study material for one document. RawQuiz is
// kept as emitted; the quiz package normalizes it when a session starts.
type GeneratedSet struct {
	Summary      string
	KeyTakeaways []string
	Flashcards   []model.Flashcard
	RawQuiz      json.RawMessage
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api             *openai.Client
	model           string
	maxTokens       int
	minSummaryWords int
}

// New creates a new LLM client. When baseURL is empty the default OpenAI
// endpoint is used.
func New(baseURL, apiKey, modelName string, maxTokens, minSummaryWords int) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:             openai.NewClientWithConfig(config),
		model:           modelName,
		maxTokens:       maxTokens,
		minSummaryWords: minSummaryWords,
	}
}

// Ping verifies the API endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint unreachable: %w", err)
	}
	return nil
}

// GenerateStudySet produces a summary, key takeaways, flashcards, and a
// raw quiz payload from document text. When the first summary comes back
// below the configured word floor, a second expansion pass rewrites it.
func (c *Client) GenerateStudySet(ctx context.Context, text string) (*GeneratedSet, error) {
	text = truncateSource(text)

	raw, err := c.complete(ctx, buildStudySetPrompt(), text)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Summary      string            `json:"summary"`
		KeyTakeaways []string          `json:"keyTakeaways"`
		Flashcards   []model.Flashcard `json:"flashcards"`
		Quiz         json.RawMessage   `json:"quiz"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}

	set := &GeneratedSet{
		Summary:      strings.TrimSpace(payload.Summary),
		KeyTakeaways: cleanStrings(payload.KeyTakeaways),
		Flashcards:   cleanFlashcards(payload.Flashcards),
		RawQuiz:      payload.Quiz,
	}

	if words := wordCount(set.Summary); words < c.minSummaryWords {
		slog.Debug("summary below word floor, expanding", "words", words, "floor", c.minSummaryWords)
		expanded, err := c.complete(ctx, buildExpandPrompt(c.minSummaryWords), set.Summary+"\n\nSOURCE DOCUMENT:\n"+text)
		if err == nil {
			var exp struct {
				Summary string `json:"summary"`
			}
			if json.Unmarshal([]byte(expanded), &exp) == nil && wordCount(exp.Summary) > words {
				set.Summary = strings.TrimSpace(exp.Summary)
			}
		} else {
			slog.Warn("summary expansion failed, keeping short summary", "error", err)
		}
	}

	return set, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildStudySetPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a study assistant. The user will send you the text of a study document.\n")
	sb.WriteString("Produce study material from it.\n\n")
	sb.WriteString("Respond ONLY with a JSON object with these fields:\n")
	sb.WriteString(`{"summary": "<detailed prose summary of the document>", `)
	sb.WriteString(`"keyTakeaways": ["<short takeaway>", ...], `)
	sb.WriteString(`"flashcards": [{"front": "<question or term>", "back": "<answer or definition>"}, ...], `)
	sb.WriteString(`"quiz": [{"question": "<text>", "options": ["<a>", "<b>", "<c>", "<d>"], "answerIndex": <0-3>, "explanation": "<why>"}, ...]}`)
	sb.WriteString("\n\nRULES:\n")
	sb.WriteString("- Every quiz question has exactly 4 options and one correct answerIndex.\n")
	sb.WriteString("- Base everything strictly on the document. Do not invent facts.\n")
	sb.WriteString("- Aim for 5-10 key takeaways, 10-20 flashcards, and 5-10 quiz questions.\n")
	return sb.String()
}

func buildExpandPrompt(minWords int) string {
	var sb strings.Builder
	sb.WriteString("You are a study assistant. The user will send you a summary that is too short, ")
	sb.WriteString("followed by the source document it summarizes.\n")
	sb.WriteString(fmt.Sprintf("Rewrite the summary so it is at least %d words, ", minWords))
	sb.WriteString("adding detail from the source document only.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"summary": "<expanded summary>"}`)
	sb.WriteString("\n")
	return sb.String()
}

func truncateSource(text string) string {
	if len(text) <= maxSourceChars {
		return text
	}
	cut := text[:maxSourceChars]
	// cut on a rune boundary
	for len(cut) > 0 && !utf8.RuneStart(cut[len(cut)-1]) {
		cut = cut[:len(cut)-1]
	}
	if r, size := utf8.DecodeLastRuneInString(cut); r == utf8.RuneError && size == 1 {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cleanFlashcards(in []model.Flashcard) []model.Flashcard {
	out := make([]model.Flashcard, 0, len(in))
	for _, f := range in {
		front := strings.TrimSpace(f.Front)
		back := strings.TrimSpace(f.Back)
		if front == "" || back == "" {
			continue
		}
		out = append(out, model.Flashcard{Front: front, Back: back})
		if len(out) == maxFlashcards {
			break
		}
	}
	return out
}
