package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/redact"
	"google.golang.org/genai"
)

func redactErr(err error) string {
	return redact.Error(err)
}

// wrapCallError converts an SDK or transport error into sentinel, keeping
// context cancellation visible to errors.Is.
func wrapCallError(sentinel, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", sentinel, context.Canceled)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", sentinel, context.DeadlineExceeded)
	default:
		return fmt.Errorf("%w: %s", sentinel, redactErr(err))
	}
}

// blockedReason reports why a response was withheld, or "" when it was not.
func blockedReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return string(resp.PromptFeedback.BlockReason)
	}
	for _, cand := range resp.Candidates {
		if cand != nil && cand.FinishReason == genai.FinishReasonSafety {
			return string(cand.FinishReason)
		}
	}
	return ""
}

// responseText concatenates the text parts of the first candidate. Thought
// parts are skipped.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func blockedError(sentinel error, reason string) error {
	return fmt.Errorf("%w: %w (%s)", sentinel, generation.ErrContentBlocked, reason)
}
