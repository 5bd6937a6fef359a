// Package ws defines the tutor websocket protocol and a connection wrapper
// that serializes writes and keeps the socket alive.
package ws

import "github.com/phrazzld/scry-tutor/internal/domain"

// Action is the verb of a client frame.
type Action string

const (
	ActionSend    Action = "send"
	ActionAttach  Action = "attach"
	ActionReset   Action = "reset"
	ActionProfile Action = "profile"
	ActionPing    Action = "ping"
)

// ClientFrame is every message the client sends. Fields not used by an
// action are ignored.
type ClientFrame struct {
	Action   Action              `json:"action"`
	Text     string              `json:"text,omitempty"`
	FileName string              `json:"file_name,omitempty"`
	Content  string              `json:"content,omitempty"`
	Profile  *domain.UserProfile `json:"profile,omitempty"`
}

// Event is the type of a server frame.
type Event string

const (
	EventStatus   Event = "status"
	EventFragment Event = "fragment"
	EventTurn     Event = "turn"
	EventHistory  Event = "history"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// StatusFrame reports the session status after every action.
type StatusFrame struct {
	Type   Event  `json:"type"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// FragmentFrame carries one delta of the streaming turn and the text so far.
type FragmentFrame struct {
	Type  Event  `json:"type"`
	Delta string `json:"delta"`
	Text  string `json:"text"`
}

// TurnFrame carries a model turn once it has been recorded in history.
type TurnFrame struct {
	Type      Event           `json:"type"`
	Turn      domain.ChatTurn `json:"turn"`
	Truncated bool            `json:"truncated"`
}

// HistoryFrame replaces the client's copy of the conversation.
type HistoryFrame struct {
	Type    Event             `json:"type"`
	History []domain.ChatTurn `json:"history"`
}

// ErrorFrame reports a failed action.
type ErrorFrame struct {
	Type  Event  `json:"type"`
	Error string `json:"error"`
}

// PongFrame answers ActionPing.
type PongFrame struct {
	Type Event `json:"type"`
}
