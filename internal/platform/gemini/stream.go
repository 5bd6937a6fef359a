package gemini

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"google.golang.org/genai"
)

// StreamTurn sends the conversation to the chat model and yields each text
// delta in arrival order. The returned sequence may be consumed once. A
// failure after the request starts is yielded as ErrStreamInterrupted and
// ends the sequence; deltas already yielded stand.
func (c *Client) StreamTurn(
	ctx context.Context,
	prompt string,
	history []domain.ChatTurn,
) iter.Seq2[string, error] {
	return generation.OneShot(func(yield func(string, error) bool) {
		if strings.TrimSpace(prompt) == "" {
			yield("", fmt.Errorf("%w: %w", generation.ErrValidationRejected, domain.ErrEmptyPrompt))
			return
		}

		contents := buildContents(history, prompt)
		cfg := &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: c.systemInstruction}},
			},
		}

		c.logger.DebugContext(ctx, "starting stream",
			"model", c.config.ChatModel,
			"history_turns", len(history),
			"prompt_length", len(prompt))

		fragments, received := 0, 0
		for resp, err := range c.models.GenerateContentStream(ctx, c.config.ChatModel, contents, cfg) {
			if err != nil {
				wrapped := wrapCallError(generation.ErrStreamInterrupted, err)
				c.logger.ErrorContext(ctx, "stream interrupted",
					"fragments", fragments,
					"received_length", received,
					"error", wrapped.Error())
				yield("", wrapped)
				return
			}

			delta := responseText(resp)
			reason := blockedReason(resp)
			if delta != "" || reason == "" {
				fragments++
				received += len(delta)
				c.logger.DebugContext(ctx, "fragment received", "length", len(delta))
				if !yield(delta, nil) {
					c.logger.DebugContext(ctx, "stream abandoned by consumer", "fragments", fragments)
					return
				}
			}
			if reason != "" {
				c.logger.WarnContext(ctx, "stream blocked", "reason", reason, "fragments", fragments)
				yield("", blockedError(generation.ErrStreamInterrupted, reason))
				return
			}
		}

		c.logger.InfoContext(ctx, "stream completed",
			"fragments", fragments,
			"received_length", received)
	})
}

// buildContents lays out history oldest-first followed by the new user turn.
// Turns with no text are skipped because the API rejects empty parts.
func buildContents(history []domain.ChatTurn, prompt string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		if turn.Text == "" {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  string(turn.Role),
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	return append(contents, &genai.Content{
		Role:  string(domain.RoleUser),
		Parts: []*genai.Part{{Text: prompt}},
	})
}
