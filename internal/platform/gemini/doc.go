// Package gemini implements the generation interfaces on top of Google's
// Gemini API (google.golang.org/genai).
//
// A single Client serves three kinds of calls:
//
//   - GenerateQuiz and GenerateFlashcards issue one GenerateContent request
//     with a declared JSON array schema. The response text is handed to
//     internal/extract, so prose or code fences around the array are
//     tolerated. Records the model returns without an id get one.
//   - StreamTurn issues a GenerateContentStream request carrying the tutor
//     system instruction and the prior conversation, and yields text deltas
//     as they arrive.
//   - Greeting and FileAnalysisPrompt render the tutor's fixed texts from the
//     same prompt templates.
//
// Prompt templates are embedded in the binary and may be overridden per file
// from LLMConfig.PromptTemplateDir.
//
// SDK and transport failures never leave this package unwrapped: they are
// converted to generation.ErrGenerationFailed or
// generation.ErrStreamInterrupted, with error text passed through
// internal/redact.
package gemini
