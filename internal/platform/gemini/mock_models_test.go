package gemini

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/phrazzld/scry-tutor/internal/config"
	"google.golang.org/genai"
)

// mockModels is a function-field fake of the genai Models surface.
type mockModels struct {
	GenerateContentFn       func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStreamFn func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]

	mu          sync.Mutex
	calls       int
	lastModel   string
	lastContent []*genai.Content
	lastConfig  *genai.GenerateContentConfig
}

func (m *mockModels) record(model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastModel = model
	m.lastContent = contents
	m.lastConfig = cfg
}

func (m *mockModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.record(model, contents, cfg)
	return m.GenerateContentFn(ctx, model, contents, cfg)
}

func (m *mockModels) GenerateContentStream(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) iter.Seq2[*genai.GenerateContentResponse, error] {
	m.record(model, contents, cfg)
	return m.GenerateContentStreamFn(ctx, model, contents, cfg)
}

func (m *mockModels) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func respondWith(text string, err error) *mockModels {
	return &mockModels{
		GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if err != nil {
				return nil, err
			}
			return textResponse(text), nil
		},
	}
}

func streamOf(parts []string, tail error) *mockModels {
	return &mockModels{
		GenerateContentStreamFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			return func(yield func(*genai.GenerateContentResponse, error) bool) {
				for _, p := range parts {
					if !yield(textResponse(p), nil) {
						return
					}
				}
				if tail != nil {
					yield(nil, tail)
				}
			}
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-key",
		QuizModel:         "quiz-model",
		FlashcardModel:    "flash-model",
		ChatModel:         "chat-model",
		QuizQuestionCount: 5,
	}
}
