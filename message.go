package relay

// Message is one turn of a conversation as sent upstream.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage returns a Message with RoleSystem.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage returns a Message with RoleUser.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage returns a Message with RoleAssistant.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// LastUserContent returns the content of the last user message, or fallback
// when there is none.
func LastUserContent(msgs []Message, fallback string) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return fallback
}

// SystemContent returns the content of the first system message, or empty
// string.
func SystemContent(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}
