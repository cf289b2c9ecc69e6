package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

const quotaMsg = "limit reached"

type relayFixture struct {
	store    *fakeStore
	provider *fakeProvider
	recorder *Recorder
	relay    *Relay
}

func newRelayFixture(t *testing.T, quota int) *relayFixture {
	t.Helper()
	f := &relayFixture{
		store:    newFakeStore(),
		provider: &fakeProvider{},
	}
	gate := NewGate(GateConfig{Limit: 100, Window: time.Minute, Quota: quota}, f.store, Logger.Nop())
	f.recorder = NewRecorder(f.store, 16, time.Second, Logger.Nop())
	f.relay = NewRelay(RelayConfig{
		SystemPrompt: "you are a portfolio bot",
		HistorySize:  10,
		MaxTokens:    500,
		Temperature:  0.7,
		QuotaMessage: quotaMsg,
	}, f.store, gate, f.provider, f.recorder, Logger.Nop())
	t.Cleanup(func() { _ = f.recorder.Close(context.Background()) })
	return f
}

func ask(content string) Request {
	return Request{
		SessionID: "chat_1",
		Messages:  []IncomingMessage{{Role: "user", Content: content}},
	}
}

func (f *relayFixture) waitAssistant(t *testing.T) storedMessage {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case m := <-f.store.appended:
			if m.Role == RoleAssistant {
				return m
			}
		case <-deadline:
			t.Fatal("assistant message was never recorded")
			return storedMessage{}
		}
	}
}

func TestRelayStreamsAndRecordsTranscript(t *testing.T) {
	partitions := [][]string{
		{"Hello"},
		{"Hel", "lo", ", ", "I work on ", "data pipelines."},
		{"H", "e", "l", "l", "o", " ", "👋"},
	}
	for i, chunks := range partitions {
		t.Run(fmt.Sprintf("partition %d", i), func(t *testing.T) {
			f := newRelayFixture(t, 10)
			f.provider.chunks = chunks
			sink := &fakeSink{}

			state, err := f.relay.Serve(context.Background(), ask("who are you?"), SessionMeta{}, sink)
			require.NoError(t, err)
			assert.Equal(t, StateCompleted, state)

			assert.True(t, sink.opened)
			assert.True(t, sink.done)
			assert.Empty(t, sink.failure)
			assert.Equal(t, chunks, sink.chunks)

			m := f.waitAssistant(t)
			assert.Equal(t, strings.Join(chunks, ""), m.Content)
			assert.Equal(t, "db-chat_1", m.SessionID)
			assert.True(t, f.provider.stream.closed)
		})
	}
}

func TestRelayPersistsUserMessageOnlyWhenLastIsUser(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.provider.chunks = []string{"ok"}

	_, err := f.relay.Serve(context.Background(), ask("  question"), SessionMeta{}, &fakeSink{})
	require.NoError(t, err)
	require.Len(t, f.store.byRole(RoleUser), 1)
	assert.Equal(t, "  question", f.store.byRole(RoleUser)[0].Content)

	req := Request{SessionID: "chat_1", Messages: []IncomingMessage{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
	}}
	_, err = f.relay.Serve(context.Background(), req, SessionMeta{}, &fakeSink{})
	require.NoError(t, err)
	assert.Len(t, f.store.byRole(RoleUser), 1)
}

func TestRelayBuildsCompletionRequest(t *testing.T) {
	f := newRelayFixture(t, 100)
	f.provider.chunks = []string{"ok"}

	msgs := make([]IncomingMessage, 0, 14)
	for i := 0; i < 7; i++ {
		msgs = append(msgs,
			IncomingMessage{Role: "user", Content: fmt.Sprintf("q%d", i)},
			IncomingMessage{Role: "assistant", Content: fmt.Sprintf("a%d", i)},
		)
	}
	msgs = append(msgs, IncomingMessage{Role: "user", Content: "last"})

	_, err := f.relay.Serve(context.Background(), Request{SessionID: "chat_1", Messages: msgs}, SessionMeta{}, &fakeSink{})
	require.NoError(t, err)

	got := f.provider.last
	assert.Equal(t, "you are a portfolio bot", got.System)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Msgs, 10)
	assert.Equal(t, assistant.AssistantMessage{Content: "last", MsgRole: assistant.USER}, got.Msgs[9])
	assert.Equal(t, assistant.AssistantMessage{Content: "a6", MsgRole: assistant.ASSISTANT}, got.Msgs[8])
}

func TestRelayQuotaShortCircuitsProvider(t *testing.T) {
	f := newRelayFixture(t, 2)
	f.provider.chunks = []string{"answer"}

	for i := 0; i < 2; i++ {
		state, err := f.relay.Serve(context.Background(), ask("q"), SessionMeta{}, &fakeSink{})
		require.NoError(t, err)
		require.Equal(t, StateCompleted, state)
		f.waitAssistant(t)
	}
	require.Equal(t, 2, f.provider.callCount())

	for i := 0; i < 3; i++ {
		sink := &fakeSink{}
		state, err := f.relay.Serve(context.Background(), ask("one more"), SessionMeta{}, sink)
		require.NoError(t, err)
		assert.Equal(t, StateCompleted, state)
		assert.Equal(t, []string{quotaMsg}, sink.chunks)
		assert.True(t, sink.done)
		assert.Equal(t, quotaMsg, f.waitAssistant(t).Content)
	}
	assert.Equal(t, 2, f.provider.callCount())
}

func TestRelaySurvivesFailingStore(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.store.failAll = true
	f.provider.chunks = []string{"still ", "here"}
	sink := &fakeSink{}

	state, err := f.relay.Serve(context.Background(), ask("hi"), SessionMeta{}, sink)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
	assert.Equal(t, "still here", sink.text())
	assert.True(t, sink.done)
	assert.Equal(t, 1, f.provider.callCount())
}

func TestRelayLatencyIndependentOfStore(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.store.assistantDelay = 300 * time.Millisecond
	f.provider.chunks = []string{"fast"}
	sink := &fakeSink{}

	start := time.Now()
	state, err := f.relay.Serve(context.Background(), ask("hi"), SessionMeta{}, sink)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
	assert.True(t, sink.done)
	assert.Less(t, elapsed, 150*time.Millisecond)
	assert.Equal(t, "fast", f.waitAssistant(t).Content)
}

func TestRelayPreStreamErrorsAreClassified(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(p *fakeProvider)
		class   func(error) bool
		message string
	}{
		{
			name:    "auth on open",
			setup:   func(p *fakeProvider) { p.openErr = fmt.Errorf("%w: bad key", assistant.ErrUnauthorized) },
			class:   UpstreamConfigError.Has,
			message: MsgNotConfigured,
		},
		{
			name:    "auth before first chunk",
			setup:   func(p *fakeProvider) { p.streamErr = fmt.Errorf("%w: bad key", assistant.ErrUnauthorized) },
			class:   UpstreamConfigError.Has,
			message: MsgNotConfigured,
		},
		{
			name:    "other failure",
			setup:   func(p *fakeProvider) { p.streamErr = errors.New("upstream 503") },
			class:   UpstreamTransientError.Has,
			message: MsgGeneric,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRelayFixture(t, 10)
			tc.setup(f.provider)
			sink := &fakeSink{}

			state, err := f.relay.Serve(context.Background(), ask("hi"), SessionMeta{}, sink)
			require.Error(t, err)
			assert.Equal(t, StateAborted, state)
			assert.True(t, tc.class(err))
			assert.Equal(t, tc.message, PublicMessage(err))
			assert.NotContains(t, PublicMessage(err), "bad key")
			assert.False(t, sink.opened)
		})
	}
}

func TestRelayMidStreamFailureSignalsClientAndSkipsTranscript(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.provider.chunks = []string{"partial ", "answer"}
	f.provider.streamErr = errors.New("connection reset")
	sink := &fakeSink{}

	state, err := f.relay.Serve(context.Background(), ask("hi"), SessionMeta{}, sink)
	require.NoError(t, err)
	assert.Equal(t, StateAborted, state)
	assert.Equal(t, []string{"partial ", "answer"}, sink.chunks)
	assert.False(t, sink.done)
	assert.Equal(t, MsgGeneric, sink.failure)

	require.NoError(t, f.recorder.Close(context.Background()))
	assert.Empty(t, f.store.byRole(RoleAssistant))
}

func TestRelayClientGoneMidStream(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.provider.chunks = []string{"a", "b", "c"}
	sink := &fakeSink{sendErr: errors.New("broken pipe")}

	state, err := f.relay.Serve(context.Background(), ask("hi"), SessionMeta{}, sink)
	require.NoError(t, err)
	assert.Equal(t, StateAborted, state)
	assert.Empty(t, sink.failure)
	assert.True(t, f.provider.stream.closed)

	require.NoError(t, f.recorder.Close(context.Background()))
	assert.Empty(t, f.store.byRole(RoleAssistant))
}

func TestRelayCancelledBeforeFirstChunk(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.provider.streamErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := f.relay.Serve(ctx, ask("hi"), SessionMeta{}, &fakeSink{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAborted, state)
}
