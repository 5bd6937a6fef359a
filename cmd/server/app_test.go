package main

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/platform/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// stubModels answers every structured call with the same JSON text.
type stubModels struct {
	text string
}

func (s stubModels) GenerateContent(
	context.Context, string, []*genai.Content, *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: s.text}}},
		}},
	}, nil
}

func (s stubModels) GenerateContentStream(
	context.Context, string, []*genai.Content, *genai.GenerateContentConfig,
) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(func(*genai.GenerateContentResponse, error) bool) {}
}

func testAppConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", ShutdownTimeoutSeconds: 2},
		LLM: config.LLMConfig{
			GeminiAPIKey:      "test-key",
			QuizModel:         "quiz-model",
			FlashcardModel:    "flash-model",
			ChatModel:         "chat-model",
			QuizQuestionCount: 1,
		},
		Tutor: config.TutorConfig{PersonaName: "FlashMentor", Greeting: true},
	}
}

func newTestApp(t *testing.T, modelText string) *application {
	t.Helper()

	cfg := testAppConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := gemini.NewClientWithModels(logger, cfg.LLM, stubModels{text: modelText},
		gemini.WithPersona(cfg.Tutor.PersonaName))
	require.NoError(t, err)

	app, err := newApplicationWithClient(cfg, logger, client)
	require.NoError(t, err)
	return app
}

func TestRouter_QuizRoundTrip(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, "Here you go:\n"+
		`[{"id":"q1","question":"2+2?","options":["3","4","5","6"],"correctAnswer":1,"explanation":"sum"}]`)
	router := app.setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quiz-sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	body := strings.NewReader(`{"topic":"Arithmetic","difficulty":"Beginner"}`)
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quiz-sessions/"+created.ID+"/generate", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
	assert.Contains(t, w.Body.String(), `"2+2?"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, w.Body.String())
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, "[]")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
