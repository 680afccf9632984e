package chat

import "time"

// Roles a turn can carry. No other senders exist in this system.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a session's history. Immutable once appended.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
