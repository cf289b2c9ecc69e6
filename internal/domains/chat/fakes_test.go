package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/xpanvictor/portfolio/pkg/assistant"
)

var errStoreDown = errors.New("store down")

type storedMessage struct {
	SessionID string
	Role      Role
	Content   string
}

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]string
	messages []storedMessage
	calls    int

	failAll        bool
	assistantDelay time.Duration
	appended       chan storedMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]string),
		appended: make(chan storedMessage, 64),
	}
}

func (s *fakeStore) GetOrCreateSession(_ context.Context, token string, _ SessionMeta) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAll {
		return "", errStoreDown
	}
	id, ok := s.sessions[token]
	if !ok {
		id = "db-" + token
		s.sessions[token] = id
	}
	return id, nil
}

func (s *fakeStore) AppendMessage(ctx context.Context, sessionID string, role Role, content string) error {
	if role == RoleAssistant && s.assistantDelay > 0 {
		select {
		case <-time.After(s.assistantDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	s.calls++
	if s.failAll {
		s.mu.Unlock()
		return errStoreDown
	}
	m := storedMessage{SessionID: sessionID, Role: role, Content: content}
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	s.appended <- m
	return nil
}

func (s *fakeStore) CountUserMessages(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAll {
		return 0, errStoreDown
	}
	var n int64
	for _, m := range s.messages {
		if m.SessionID == sessionID && m.Role == RoleUser {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeStore) byRole(role Role) []storedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storedMessage
	for _, m := range s.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// fakeStream replays chunks then reports err.
type fakeStream struct {
	chunks []string
	err    error
	pos    int
	closed bool
}

func (f *fakeStream) Next() bool {
	if f.pos >= len(f.chunks) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeStream) Current() string { return f.chunks[f.pos-1] }
func (f *fakeStream) Err() error {
	if f.pos < len(f.chunks) {
		return nil
	}
	return f.err
}
func (f *fakeStream) Close() error { f.closed = true; return nil }

type fakeProvider struct {
	mu        sync.Mutex
	chunks    []string
	streamErr error
	openErr   error
	calls     int
	last      assistant.CompletionRequest
	stream    *fakeStream
}

func (p *fakeProvider) Stream(_ context.Context, req assistant.CompletionRequest) (assistant.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = req
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.stream = &fakeStream{chunks: p.chunks, err: p.streamErr}
	return p.stream, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeSink struct {
	opened  bool
	chunks  []string
	done    bool
	failure string
	sendErr error
}

func (s *fakeSink) Open() error { s.opened = true; return nil }

func (s *fakeSink) Send(chunk string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

func (s *fakeSink) Done() error { s.done = true; return nil }

func (s *fakeSink) Fail(message string) error { s.failure = message; return nil }

func (s *fakeSink) text() string { return strings.Join(s.chunks, "") }
