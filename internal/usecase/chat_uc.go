// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/adapter"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// Send relays one user message to the agent and returns the normalized
	// reply plus the session id in effect (assigned when the caller sent
	// none). Upstream and transport failures come back as a synthetic
	// assistant reply, not as an error; the conversation stays usable.
	Send(ctx context.Context, sessionID, message string) (reply, sid string, err error)
	History(ctx context.Context, sessionID string) (*model.Conversation, error)
}

type chatUC struct {
	agent adapter.AgentAdapter
	now   func() time.Time

	mu            sync.Mutex
	conversations map[string]*model.Conversation
}

func NewChatUseCase(agent adapter.AgentAdapter, now func() time.Time) *chatUC {
	if now == nil {
		now = time.Now
	}
	return &chatUC{
		agent:         agent,
		now:           now,
		conversations: make(map[string]*model.Conversation),
	}
}

func (c *chatUC) Send(ctx context.Context, sessionID, message string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", "", domain.ErrInvalidArgument
	}
	if sessionID == "" {
		sessionID = model.NewChatSessionID(c.now())
	}

	c.mu.Lock()
	conv := c.conversations[sessionID]
	if conv == nil {
		conv = model.NewConversation(sessionID)
		c.conversations[sessionID] = conv
	}
	conv.Append(model.RoleUser, message, c.now())
	c.mu.Unlock()

	reply := c.ask(ctx, sessionID, message)

	c.mu.Lock()
	conv.Append(model.RoleAssistant, reply, c.now())
	c.mu.Unlock()

	return reply, sessionID, nil
}

// ask performs the webhook round trip. Failures are folded into the reply
// text so the caller never sees a distinct error state.
func (c *chatUC) ask(ctx context.Context, sessionID, message string) string {
	raw, err := c.agent.Ask(ctx, sessionID, message)
	if err == nil {
		return NormalizeReply(raw)
	}

	var upstream *adapter.UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Body == "" {
			return "Error: Failed to get response"
		}
		return "Error: " + upstream.Body
	}
	return fmt.Sprintf("Network error: %s", err)
}

func (c *chatUC) History(ctx context.Context, sessionID string) (*model.Conversation, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	conv := c.conversations[sessionID]
	if conv == nil {
		return nil, domain.ErrNotFound
	}
	// Copy so callers cannot mutate history out from under the lock.
	cp := *conv
	cp.Messages = append([]model.ConversationMessage(nil), conv.Messages...)
	return &cp, nil
}
