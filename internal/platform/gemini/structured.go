package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/extract"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"google.golang.org/genai"
)

// GenerateQuiz asks the quiz model for exactly QuizQuestionCount questions.
// Questions are returned as extracted; correctAnswer range problems are
// logged, not repaired.
func (c *Client) GenerateQuiz(
	ctx context.Context,
	topic string,
	difficulty domain.Difficulty,
) ([]domain.QuizQuestion, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrValidationRejected, domain.ErrEmptyTopic)
	}

	prompt, err := c.prompts.Quiz(topic, difficulty, c.config.QuizQuestionCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text, err := c.generateStructured(ctx, "quiz", c.config.QuizModel, prompt, quizSchema())
	if err != nil {
		return nil, err
	}

	records := decodeRecords[quizRecord](ctx, c.logger, "quiz", text)
	ids := newIDAssigner()
	questions := make([]domain.QuizQuestion, 0, len(records))
	for _, r := range records {
		questions = append(questions, domain.QuizQuestion{
			ID:            ids.assign(string(r.ID)),
			Question:      string(r.Question),
			Options:       []string(r.Options),
			CorrectAnswer: r.CorrectAnswer.orMissing(),
			Explanation:   string(r.Explanation),
		})
	}

	if findings := domain.ValidateQuiz(questions); len(findings) > 0 {
		for _, f := range findings {
			c.logger.WarnContext(ctx, "generated quiz question failed validation", "finding", f.Error())
		}
	}
	if len(questions) != c.config.QuizQuestionCount && len(questions) > 0 {
		c.logger.WarnContext(ctx, "model returned unexpected question count",
			"requested", c.config.QuizQuestionCount,
			"received", len(questions))
	}

	c.logger.InfoContext(ctx, "quiz generated",
		"difficulty", string(difficulty),
		"question_count", len(questions))
	return questions, nil
}

// GenerateFlashcards asks the flashcard model for cards covering sourceText.
// Every card starts at zero mastery.
func (c *Client) GenerateFlashcards(ctx context.Context, sourceText string) ([]domain.Flashcard, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrValidationRejected, domain.ErrEmptySourceText)
	}

	prompt, err := c.prompts.Flashcards(sourceText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text, err := c.generateStructured(ctx, "flashcards", c.config.FlashcardModel, prompt, flashcardSchema())
	if err != nil {
		return nil, err
	}

	records := decodeRecords[flashcardRecord](ctx, c.logger, "flashcards", text)
	ids := newIDAssigner()
	cards := make([]domain.Flashcard, 0, len(records))
	for _, r := range records {
		cards = append(cards, domain.Flashcard{
			ID:      ids.assign(string(r.ID)),
			Front:   string(r.Front),
			Back:    string(r.Back),
			Mastery: domain.MinMastery,
		})
	}

	c.logger.InfoContext(ctx, "flashcards generated",
		"source_length", len(sourceText),
		"card_count", len(cards))
	return cards, nil
}

// generateStructured performs the single request/response call and returns
// the raw response text.
func (c *Client) generateStructured(
	ctx context.Context,
	kind, model, prompt string,
	schema *genai.Schema,
) (string, error) {
	c.logger.DebugContext(ctx, "sending structured request",
		"kind", kind,
		"model", model,
		"prompt_length", len(prompt))

	contents := []*genai.Content{{
		Role:  string(domain.RoleUser),
		Parts: []*genai.Part{{Text: prompt}},
	}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		wrapped := wrapCallError(generation.ErrGenerationFailed, err)
		c.logger.ErrorContext(ctx, "structured request failed",
			"kind", kind,
			"model", model,
			"error", wrapped.Error())
		return "", wrapped
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response envelope", generation.ErrGenerationFailed)
	}
	if reason := blockedReason(resp); reason != "" {
		c.logger.WarnContext(ctx, "structured request blocked",
			"kind", kind,
			"reason", reason)
		return "", blockedError(generation.ErrGenerationFailed, reason)
	}

	text := responseText(resp)
	c.logger.DebugContext(ctx, "structured response received",
		"kind", kind,
		"response_length", len(text))
	return text, nil
}

// decodeRecords runs the extractor and, when nothing usable comes back,
// logs which of the cases callers cannot tell apart occurred.
func decodeRecords[T any](ctx context.Context, logger *slog.Logger, kind, text string) []T {
	out := extract.Into[T](text)
	if len(out) > 0 {
		return out
	}

	var reason string
	switch {
	case !hasSpan(text):
		reason = "no JSON array found in response"
	case len(extract.Records(text)) == 0:
		reason = "JSON array malformed or empty"
	default:
		reason = "no array element was a record object"
	}
	logger.WarnContext(ctx, "structured response yielded no records",
		"kind", kind,
		"reason", reason,
		"response_length", len(text))
	return out
}

func hasSpan(text string) bool {
	_, ok := extract.Span(text)
	return ok
}

// idAssigner keeps ids unique within one generated set, replacing missing or
// repeated ids with fresh UUIDs.
type idAssigner struct {
	seen map[string]struct{}
}

func newIDAssigner() *idAssigner {
	return &idAssigner{seen: make(map[string]struct{})}
}

func (a *idAssigner) assign(id string) string {
	id = strings.TrimSpace(id)
	if _, dup := a.seen[id]; id == "" || dup {
		id = uuid.NewString()
	}
	a.seen[id] = struct{}{}
	return id
}
