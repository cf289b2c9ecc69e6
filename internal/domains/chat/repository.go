package chat

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one persisted turn of a conversation.
// @Description Chat message
type Message struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role" example:"user"`
	Content   string    `json:"content" example:"What do you work on?"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionMeta describes the client that opened a conversation.
type SessionMeta struct {
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent,omitempty"`
	Device    string `json:"device"`
	Browser   string `json:"browser"`
	OS        string `json:"os"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
}

// Session is a conversation keyed by the client-chosen token.
// @Description Chat session
type Session struct {
	ID           string `json:"id"`
	SessionToken string `json:"sessionId"`
	SessionMeta
	StartedAt    time.Time `json:"startedAt"`
	MessageCount int64     `json:"messageCount"`
	LastMessage  *Message  `json:"lastMessage,omitempty"`
	Messages     []Message `json:"messages,omitempty"`
}

type ListSessionsRequest struct {
	Search string
	Offset int
	Limit  int
}

// ConversationStore is what the chat path needs from persistence. Every
// method may fail; callers on the chat path log and carry on.
type ConversationStore interface {
	// GetOrCreateSession returns the internal id for token, creating the
	// session with meta when it does not exist yet.
	GetOrCreateSession(ctx context.Context, token string, meta SessionMeta) (string, error)
	AppendMessage(ctx context.Context, sessionID string, role Role, content string) error
	CountUserMessages(ctx context.Context, sessionID string) (int64, error)
}

// ChatRepository adds the admin read/delete surface.
type ChatRepository interface {
	ConversationStore
	ListSessions(ctx context.Context, filter ListSessionsRequest) ([]Session, int64, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}
