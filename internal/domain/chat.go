package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat turn. Values match the role names the
// Gemini API expects in conversation contents.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// ChatTurn is one finalized message in a tutor conversation.
type ChatTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatTurn creates a turn with a fresh id and the current UTC time.
func NewChatTurn(role Role, text string) (ChatTurn, error) {
	if !role.Valid() {
		return ChatTurn{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return ChatTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}, nil
}
