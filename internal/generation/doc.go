// Package generation defines the boundary between study sessions and the
// generative model. Sessions depend only on the interfaces declared here
// (QuizGenerator, FlashcardGenerator, TurnStreamer); the Gemini-backed
// implementation lives in internal/platform/gemini.
//
// Errors crossing this boundary belong to a small taxonomy (see errors.go).
// Implementations convert transport and SDK failures into these sentinels so
// that callers can branch with errors.Is and never see raw client errors.
package generation
