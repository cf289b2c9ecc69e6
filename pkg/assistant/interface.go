package assistant

import (
	"context"
	"errors"
)

type Role string

const (
	USER      Role = "user"
	ASSISTANT Role = "assistant"
	SYSTEM    Role = "system"
)

type AssistantMessage struct {
	Content string
	MsgRole Role
}

// CompletionRequest is a single streamed completion. System is sent ahead of
// Msgs; Msgs is ordered oldest first.
type CompletionRequest struct {
	System      string
	Msgs        []AssistantMessage
	MaxTokens   int
	Temperature float64
}

// Stream yields text increments in upstream order. Next blocks until a
// non-empty increment is available or the stream ends; Err reports why it
// ended (nil on normal completion).
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

type Completer interface {
	Stream(ctx context.Context, req CompletionRequest) (Stream, error)
}

var (
	// ErrUnauthorized marks upstream credential failures (bad or missing key).
	ErrUnauthorized = errors.New("completion provider rejected credentials")
	ErrNoProvider   = errors.New("no completion provider available")
)

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
