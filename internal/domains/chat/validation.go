package chat

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxMessages        = 20
	MaxMessageLength   = 1000
	MaxSessionIDLength = 100
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IncomingMessage is one history entry as sent by the browser widget.
type IncomingMessage struct {
	Role    string `json:"role" example:"user"`
	Content string `json:"content" example:"What do you work on?"`
}

// Request is the body of POST /api/chat.
// @Description Chat request
type Request struct {
	Messages  []IncomingMessage `json:"messages"`
	SessionID string            `json:"sessionId" example:"chat_1718000000_ab12cd"`
}

// Validate checks r and returns a sanitized copy: control characters are
// stripped and content trimmed. Length is measured before trimming.
func Validate(r Request) (Request, error) {
	if len(r.Messages) == 0 {
		return Request{}, invalid("messages array required")
	}
	if len(r.Messages) > MaxMessages {
		return Request{}, invalid(fmt.Sprintf("at most %d messages allowed", MaxMessages))
	}

	if r.SessionID == "" {
		return Request{}, invalid("sessionId required")
	}
	if utf8.RuneCountInString(r.SessionID) > MaxSessionIDLength || !sessionIDPattern.MatchString(r.SessionID) {
		return Request{}, invalid("malformed sessionId")
	}

	out := Request{SessionID: r.SessionID, Messages: make([]IncomingMessage, len(r.Messages))}
	for i, m := range r.Messages {
		if !Role(m.Role).Valid() {
			return Request{}, invalid(fmt.Sprintf("message %d has unknown role", i))
		}
		if utf8.RuneCountInString(m.Content) > MaxMessageLength {
			return Request{}, invalid(fmt.Sprintf("message %d exceeds %d characters", i, MaxMessageLength))
		}
		content := strings.TrimSpace(stripControl(m.Content))
		if content == "" {
			return Request{}, invalid(fmt.Sprintf("message %d is empty", i))
		}
		out.Messages[i] = IncomingMessage{Role: m.Role, Content: content}
	}
	return out, nil
}

// stripControl drops control characters other than newline and tab.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
