package session

// Status is the externally visible state of a session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusStreaming  Status = "streaming"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// InFlight reports whether a request is currently running.
func (s Status) InFlight() bool {
	return s == StatusGenerating || s == StatusStreaming
}

// Kind names the type of a session.
type Kind string

const (
	KindQuiz       Kind = "quiz"
	KindFlashcards Kind = "flashcards"
	KindChat       Kind = "chat"
)
