package relay

import (
	"time"

	"github.com/google/uuid"
)

// Session is a multi-turn conversation kept by a caller between requests.
// The orchestrator never sees it; Request builds the per-turn value.
type Session struct {
	ID           string
	SystemPrompt string
	Messages     []Message
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSession starts an empty session with a fresh ID.
func NewSession(systemPrompt string, now time.Time) Session {
	return Session{
		ID:           uuid.NewString(),
		SystemPrompt: systemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Request returns the Request for a new user turn: the system prompt, the
// history, then text as the last user message. The session is not modified.
func (s *Session) Request(text string) Request {
	msgs := make([]Message, 0, len(s.Messages)+2)
	if s.SystemPrompt != "" {
		msgs = append(msgs, SystemMessage(s.SystemPrompt))
	}
	msgs = append(msgs, s.Messages...)
	msgs = append(msgs, UserMessage(text))
	return Request{Text: text, Messages: msgs}
}

// Record appends a completed exchange. Only completed outcomes are recorded
// so failure sentinels never become history.
func (s *Session) Record(text string, out Outcome, now time.Time) bool {
	if !out.OK() {
		return false
	}
	s.Messages = append(s.Messages, UserMessage(text), AssistantMessage(out.Content))
	s.UpdatedAt = now
	return true
}
