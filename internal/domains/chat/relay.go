package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/looplab/fsm"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

const (
	StateIdle              = "idle"
	StateResolvingSession  = "resolving_session"
	StatePersistingMessage = "persisting_user_message"
	StateCheckingQuota     = "checking_quota"
	StateStreaming         = "streaming"
	StateLimitStreaming    = "limit_streaming"
	StateCompleted         = "completed"
	StateAborted           = "aborted"
)

const (
	evResolve    = "resolve"
	evPersist    = "persist"
	evCheckQuota = "check_quota"
	evStream     = "stream"
	evLimit      = "limit"
	evComplete   = "complete"
	evAbort      = "abort"
)

var relayEvents = fsm.Events{
	{Name: evResolve, Src: []string{StateIdle}, Dst: StateResolvingSession},
	{Name: evPersist, Src: []string{StateResolvingSession}, Dst: StatePersistingMessage},
	{Name: evCheckQuota, Src: []string{StatePersistingMessage}, Dst: StateCheckingQuota},
	{Name: evStream, Src: []string{StateCheckingQuota}, Dst: StateStreaming},
	{Name: evLimit, Src: []string{StateCheckingQuota}, Dst: StateLimitStreaming},
	{Name: evComplete, Src: []string{StateStreaming, StateLimitStreaming}, Dst: StateCompleted},
	{Name: evAbort, Src: []string{StateStreaming}, Dst: StateAborted},
}

// Sink is the client side of one relayed response. Open commits the
// response as an event stream and is called at most once, before any Send.
// Once Open has been called, errors can only reach the client through Fail.
type Sink interface {
	Open() error
	Send(chunk string) error
	Done() error
	Fail(message string) error
}

type RelayConfig struct {
	SystemPrompt string
	HistorySize  int
	MaxTokens    int
	Temperature  float64
	QuotaMessage string
}

// Relay runs one chat request end to end: session binding, user message
// persistence, quota, and streaming the completion to a Sink.
type Relay struct {
	cfg      RelayConfig
	store    ConversationStore
	gate     *Gate
	provider assistant.Completer
	recorder *Recorder
	logger   *Logger.Logger
}

func NewRelay(cfg RelayConfig, store ConversationStore, gate *Gate, provider assistant.Completer, recorder *Recorder, logger *Logger.Logger) *Relay {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 10
	}
	return &Relay{
		cfg:      cfg,
		store:    store,
		gate:     gate,
		provider: provider,
		recorder: recorder,
		logger:   logger,
	}
}

// run is the per-request state.
type run struct {
	machine *fsm.FSM
	binding Binding
	logger  *Logger.Logger
}

func (r *Relay) newRun() *run {
	rn := &run{binding: Unbound, logger: r.logger}
	rn.machine = fsm.NewFSM(StateIdle, relayEvents, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			r.logger.Debugf("chat relay %s -> %s (%s)", e.Src, e.Dst, rn.binding)
		},
	})
	return rn
}

func (rn *run) fire(ctx context.Context, event string) {
	// transitions are fixed, so an error here is a programming mistake
	if err := rn.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		rn.logger.Errorf("chat relay: %s from %s: %v", event, rn.machine.Current(), err)
	}
}

// Serve handles an admitted, validated request and returns the terminal
// state. A non-nil error means nothing was written to sink and the caller
// still owns the response; it is one of the upstream error classes or the
// context error. Failures after the stream is open go through sink.Fail.
func (r *Relay) Serve(ctx context.Context, req Request, meta SessionMeta, sink Sink) (string, error) {
	rn := r.newRun()

	rn.fire(ctx, evResolve)
	rn.binding = r.resolve(ctx, req.SessionID, meta)

	rn.fire(ctx, evPersist)
	if last := req.Messages[len(req.Messages)-1]; Role(last.Role) == RoleUser {
		r.appendUserMessage(ctx, rn.binding, last.Content)
	}

	rn.fire(ctx, evCheckQuota)
	if quota := r.gate.CheckQuota(ctx, rn.binding); quota.Exceeded {
		rn.fire(ctx, evLimit)
		r.serveLimit(ctx, rn, sink)
		return rn.machine.Current(), nil
	}

	rn.fire(ctx, evStream)
	err := r.serveStream(ctx, rn, req, sink)
	return rn.machine.Current(), err
}

func (r *Relay) resolve(ctx context.Context, token string, meta SessionMeta) Binding {
	id, err := r.store.GetOrCreateSession(ctx, token, meta)
	if err != nil || id == "" {
		r.logger.Warnf("chat session %s unbound, continuing without persistence: %v", token, StorageError.Wrap(err))
		return Unbound
	}
	return Bound(id)
}

func (r *Relay) appendUserMessage(ctx context.Context, b Binding, content string) {
	sessionID, ok := b.SessionID()
	if !ok {
		return
	}
	if err := r.store.AppendMessage(ctx, sessionID, RoleUser, content); err != nil {
		r.logger.Warnf("failed to store user message for session %s: %v", sessionID, StorageError.Wrap(err))
	}
}

func (r *Relay) serveLimit(ctx context.Context, rn *run, sink Sink) {
	if err := sink.Open(); err != nil {
		r.logger.Debugf("chat client gone before quota reply: %v", err)
		rn.fire(ctx, evComplete)
		return
	}
	if err := sink.Send(r.cfg.QuotaMessage); err == nil {
		_ = sink.Done()
	}
	rn.fire(ctx, evComplete)
	r.recorder.Submit(TranscriptJob{Binding: rn.binding, Role: RoleAssistant, Content: r.cfg.QuotaMessage})
}

func (r *Relay) completionRequest(req Request) assistant.CompletionRequest {
	history := req.Messages
	if len(history) > r.cfg.HistorySize {
		history = history[len(history)-r.cfg.HistorySize:]
	}
	msgs := make([]assistant.AssistantMessage, len(history))
	for i, m := range history {
		role := assistant.USER
		if Role(m.Role) == RoleAssistant {
			role = assistant.ASSISTANT
		}
		msgs[i] = assistant.AssistantMessage{Content: m.Content, MsgRole: role}
	}
	return assistant.CompletionRequest{
		System:      r.cfg.SystemPrompt,
		Msgs:        msgs,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}
}

func (r *Relay) serveStream(ctx context.Context, rn *run, req Request, sink Sink) error {
	stream, err := r.provider.Stream(ctx, r.completionRequest(req))
	if err != nil {
		rn.fire(ctx, evAbort)
		return upstreamError(ctx, err)
	}
	defer stream.Close()

	// Pull the first increment before committing headers so early provider
	// failures can still become a plain JSON error.
	hasFirst := stream.Next()
	if !hasFirst {
		if err := stream.Err(); err != nil {
			rn.fire(ctx, evAbort)
			return upstreamError(ctx, err)
		}
	}

	if err := sink.Open(); err != nil {
		rn.fire(ctx, evAbort)
		return ctx.Err()
	}

	var transcript strings.Builder
	for ok := hasFirst; ok; ok = stream.Next() {
		chunk := stream.Current()
		transcript.WriteString(chunk)
		if err := sink.Send(chunk); err != nil {
			r.logger.Debugf("chat client went away mid-stream (%s): %v", rn.binding, err)
			rn.fire(ctx, evAbort)
			return nil
		}
	}

	if err := stream.Err(); err != nil {
		rn.fire(ctx, evAbort)
		if ctx.Err() != nil {
			r.logger.Debugf("chat client disconnected (%s): %v", rn.binding, err)
			return nil
		}
		r.logger.Errorf("chat upstream failed mid-stream (%s): %v", rn.binding, err)
		_ = sink.Fail(PublicMessage(classifyUpstream(err)))
		return nil
	}

	_ = sink.Done()
	rn.fire(ctx, evComplete)
	r.recorder.Submit(TranscriptJob{Binding: rn.binding, Role: RoleAssistant, Content: transcript.String()})
	return nil
}

func classifyUpstream(err error) error {
	if assistant.IsUnauthorized(err) {
		return UpstreamConfigError.Wrap(err)
	}
	return UpstreamTransientError.Wrap(err)
}

func upstreamError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return classifyUpstream(err)
}
