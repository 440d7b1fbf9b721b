// ABOUTME: Conversation turn and streaming chat event types
// ABOUTME: Turns are ordered role-tagged messages; events are the stream variants
package models

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in an ordered conversation.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatEventType tags a streaming chat event.
type ChatEventType string

const (
	EventToken   ChatEventType = "token"
	EventSources ChatEventType = "sources"
	EventError   ChatEventType = "error"
)

// ChatEvent is one element of a streaming chat response. Exactly one of
// Token, Sources, or Err is meaningful, selected by Type.
type ChatEvent struct {
	Type    ChatEventType    `json:"type"`
	Token   string           `json:"token,omitempty"`
	Sources []SourceCitation `json:"sources,omitempty"`
	Err     string           `json:"error,omitempty"`
}
