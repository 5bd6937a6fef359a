// Package session owns the interactive state of one study view: a quiz
// attempt, a flashcard deck or a tutor conversation.
//
// Each session is a small state machine over Status:
//
//	Idle -> Generating -> Ready | Error   (quiz, flashcards)
//	Idle -> Streaming  -> Ready | Error   (chat; Ready loops back to Streaming)
//
// At most one request is in flight per session; a submission made while one
// is running is rejected, never queued. Reset returns any session to Idle.
// Close tears a session down: afterwards every mutator returns
// ErrSessionClosed and any result still arriving from the model is dropped
// without touching session state. Reset and Close both advance an internal
// epoch, so a result belonging to an earlier epoch is discarded the same way.
//
// Sessions are safe for concurrent use. Transitions are published as
// events.SessionEvent values when an emitter is configured.
package session
