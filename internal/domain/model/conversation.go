package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn in a conversation. Never mutated after
// creation.
type ConversationMessage struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the append-only message sequence for one chat session.
type Conversation struct {
	SessionID string                `json:"sessionId"`
	Messages  []ConversationMessage `json:"messages"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func NewConversation(sessionID string) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		Messages:  make([]ConversationMessage, 0, 8),
	}
}

// Append records a message. An assistant message identical to the
// immediately preceding assistant message is discarded; upstream retries can
// deliver the same reply twice and the history must not show it twice. User
// messages are always appended. Reports whether the message was kept.
func (c *Conversation) Append(role, content string, now time.Time) bool {
	if role == RoleAssistant && len(c.Messages) > 0 {
		last := c.Messages[len(c.Messages)-1]
		if last.Role == RoleAssistant && last.Content == content {
			return false
		}
	}
	c.Messages = append(c.Messages, ConversationMessage{Role: role, Content: content, Timestamp: now})
	c.UpdatedAt = now
	return true
}

// Last returns the most recent message, or nil for an empty conversation.
func (c *Conversation) Last() *ConversationMessage {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}
