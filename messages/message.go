package messages

import (
	"fmt"
)

// Role identifies who authored a message in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown roles.
func (r *Role) UnmarshalText(text []byte) error {
	role := Role(text)
	if !role.Valid() {
		return fmt.Errorf("unknown message role %q", text)
	}
	*r = role
	return nil
}

// Message is a single conversation entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// Conversation is an ordered sequence of messages, oldest first.
type Conversation []Message

// Last returns the most recent message, or false when the conversation is empty.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// Contents returns the content of every message in order, dropping roles.
func (c Conversation) Contents() []string {
	result := make([]string, len(c))
	for i, m := range c {
		result[i] = m.Content
	}
	return result
}
