package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

type chatFixture struct {
	router   *gin.Engine
	store    *memStore
	provider *scriptedProvider
	sessions *stubChatService
}

func newChatFixture(t *testing.T, limit, quota int) *chatFixture {
	t.Helper()
	store := newMemStore()
	f := &chatFixture{
		store:    store,
		provider: &scriptedProvider{},
		sessions: &stubChatService{sessions: map[string]*chat.Session{}},
	}
	gate := chat.NewGate(chat.GateConfig{Limit: limit, Window: time.Minute, Quota: quota}, store, Logger.Nop())
	recorder := chat.NewRecorder(store, 8, time.Second, Logger.Nop())
	t.Cleanup(func() { _ = recorder.Close(context.Background()) })
	relay := chat.NewRelay(chat.RelayConfig{
		SystemPrompt: "system",
		MaxTokens:    500,
		Temperature:  0.7,
		QuotaMessage: "that's all for now",
	}, store, gate, f.provider, recorder, Logger.Nop())

	h := NewChatHandler(gate, relay, f.sessions, stubUsers{}, nil, true, Logger.Nop())
	f.router = gin.New()
	h.RegisterChatRoutes(f.router.Group("/api"))
	return f
}

func chatBody(t *testing.T, messages ...string) *bytes.Reader {
	t.Helper()
	req := chat.Request{SessionID: "chat_1"}
	for _, m := range messages {
		req.Messages = append(req.Messages, chat.IncomingMessage{Role: "user", Content: m})
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func (f *chatFixture) post(body *bytes.Reader, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestChatStreamsServerSentEvents(t *testing.T) {
	f := newChatFixture(t, 20, 10)
	f.provider.chunks = []string{"Hel", "lo \"there\""}

	rec := f.post(chatBody(t, "hi"), "1.1.1.1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "data: {\"content\":\"Hel\"}\n\n"+
		"data: {\"content\":\"lo \\\"there\\\"\"}\n\n"+
		"data: [DONE]\n\n", rec.Body.String())
}

func TestChatRateLimitBeforeBody(t *testing.T) {
	f := newChatFixture(t, 1, 10)
	f.provider.chunks = []string{"ok"}

	require.Equal(t, http.StatusOK, f.post(chatBody(t, "hi"), "2.2.2.2").Code)

	// even a malformed body gets 429 first
	rec := f.post(bytes.NewReader([]byte("{")), "2.2.2.2")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, chat.MsgRateLimited, decodeError(t, rec).Error)

	// another address is unaffected
	assert.Equal(t, http.StatusOK, f.post(chatBody(t, "hi"), "3.3.3.3").Code)
}

func TestChatRejectsInvalidRequests(t *testing.T) {
	f := newChatFixture(t, 100, 10)

	tooMany := make([]string, chat.MaxMessages+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("q%d", i)
	}

	cases := map[string]*bytes.Reader{
		"malformed json": bytes.NewReader([]byte("not json")),
		"too many":       chatBody(t, tooMany...),
		"too long":       chatBody(t, strings.Repeat("x", chat.MaxMessageLength+1)),
		"bad session":    bytes.NewReader([]byte(`{"sessionId":"has space","messages":[{"role":"user","content":"hi"}]}`)),
		"oversized body": chatBody(t, strings.Repeat("x", 2*chatBodyLimit)),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.post(body, "4.4.4.4")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.True(t, strings.HasPrefix(decodeError(t, rec).Error, "Invalid request"))
		})
	}
	assert.Zero(t, f.provider.callCount())
	assert.Zero(t, f.store.callCount())
}

func TestChatPreStreamFailureIsJSON(t *testing.T) {
	f := newChatFixture(t, 20, 10)
	f.provider.openErr = fmt.Errorf("%w: sk-live-123 rejected", assistant.ErrUnauthorized)

	rec := f.post(chatBody(t, "hi"), "5.5.5.5")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, chat.MsgNotConfigured, decodeError(t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "sk-live")
}

func TestChatQuotaAnswersWithCannedMessage(t *testing.T) {
	f := newChatFixture(t, 20, 1)
	f.provider.chunks = []string{"answer"}

	require.Equal(t, http.StatusOK, f.post(chatBody(t, "q1"), "6.6.6.6").Code)
	rec := f.post(chatBody(t, "q2"), "6.6.6.6")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "data: {\"content\":\"that's all for now\"}\n\ndata: [DONE]\n\n", rec.Body.String())
	assert.Equal(t, 1, f.provider.callCount())
}

func adminRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminChatsRequireAdmin(t *testing.T) {
	f := newChatFixture(t, 20, 10)

	for token, code := range map[string]int{
		"":          http.StatusUnauthorized,
		"garbage":   http.StatusUnauthorized,
		viewerToken: http.StatusForbidden,
		adminToken:  http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/chats", token))
		assert.Equal(t, code, rec.Code, "token %q", token)
	}
}

func TestAdminChatsListAndLookup(t *testing.T) {
	f := newChatFixture(t, 20, 10)
	f.sessions.sessions["s1"] = &chat.Session{ID: "s1", SessionToken: "chat_1"}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/chats?page=2&limit=20&search=%20chrome", adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListSessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Sessions, 1)
	assert.Equal(t, PageInfo{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, list.Pagination)
	assert.Equal(t, "chrome", f.sessions.lastList.Search)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/chats?sessionId=s1", adminToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var one SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "chat_1", one.Session.SessionToken)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/chats?sessionId=nope", adminToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", decodeError(t, rec).Error)
}

func TestAdminChatsDelete(t *testing.T) {
	f := newChatFixture(t, 20, 10)
	f.sessions.sessions["s1"] = &chat.Session{ID: "s1"}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, adminRequest(http.MethodDelete, "/api/chats", adminToken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Session ID required", decodeError(t, rec).Error)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, adminRequest(http.MethodDelete, "/api/chats?sessionId=s1", adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, adminRequest(http.MethodDelete, "/api/chats?sessionId=s1", adminToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
