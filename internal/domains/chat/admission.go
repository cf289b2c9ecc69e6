package chat

import (
	"context"
	"sync"
	"time"

	"github.com/xpanvictor/portfolio/pkg/Logger"
)

type GateConfig struct {
	// Requests admitted per identity per window.
	Limit  int
	Window time.Duration
	// User messages a single session may ask before the canned reply.
	Quota int
	// Upper bound on tracked identities; 0 means unbounded.
	MaxIdentities int
}

type admissionRecord struct {
	count   int
	resetAt time.Time
}

// UserMessageCounter is the slice of the store the quota check reads.
type UserMessageCounter interface {
	CountUserMessages(ctx context.Context, sessionID string) (int64, error)
}

// Gate applies the per-identity burst limit and the per-session question
// quota. One Gate serves the whole process.
type Gate struct {
	cfg     GateConfig
	counter UserMessageCounter
	logger  *Logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	records map[string]*admissionRecord
}

type GateOption func(*Gate)

func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func NewGate(cfg GateConfig, counter UserMessageCounter, logger *Logger.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		cfg:     cfg,
		counter: counter,
		logger:  logger,
		now:     time.Now,
		records: make(map[string]*admissionRecord),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow admits or denies one request from identity. When denied, retryAfter
// is how long until the identity's window resets.
func (g *Gate) Allow(identity string) (allowed bool, retryAfter time.Duration) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[identity]
	if !ok || now.After(rec.resetAt) {
		if !ok {
			g.makeRoomLocked(now)
		}
		g.records[identity] = &admissionRecord{count: 1, resetAt: now.Add(g.cfg.Window)}
		return true, 0
	}

	if rec.count < g.cfg.Limit {
		rec.count++
		return true, 0
	}
	return false, rec.resetAt.Sub(now)
}

// makeRoomLocked keeps the map under MaxIdentities: expired records go
// first, then the record closest to expiry.
func (g *Gate) makeRoomLocked(now time.Time) {
	if g.cfg.MaxIdentities <= 0 || len(g.records) < g.cfg.MaxIdentities {
		return
	}
	if g.sweepLocked(now) > 0 && len(g.records) < g.cfg.MaxIdentities {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, rec := range g.records {
		if oldestKey == "" || rec.resetAt.Before(oldestAt) {
			oldestKey, oldestAt = k, rec.resetAt
		}
	}
	delete(g.records, oldestKey)
}

func (g *Gate) sweepLocked(now time.Time) int {
	removed := 0
	for k, rec := range g.records {
		if now.After(rec.resetAt) {
			delete(g.records, k)
			removed++
		}
	}
	return removed
}

// Sweep drops every expired record and reports how many went.
func (g *Gate) Sweep() int {
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sweepLocked(now)
}

// Len is the number of tracked identities.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

// Run sweeps every interval until ctx is done.
func (g *Gate) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = g.cfg.Window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.Sweep(); n > 0 {
				g.logger.Debugf("admission gate swept %d expired identities", n)
			}
		}
	}
}

type QuotaResult struct {
	Remaining int
	Exceeded  bool
}

// CheckQuota counts the session's persisted user messages. It fails open:
// an unbound session or a store error never blocks the user.
func (g *Gate) CheckQuota(ctx context.Context, b Binding) QuotaResult {
	open := QuotaResult{Remaining: g.cfg.Quota}
	sessionID, ok := b.SessionID()
	if !ok {
		return open
	}

	count, err := g.counter.CountUserMessages(ctx, sessionID)
	if err != nil {
		g.logger.Warnf("quota check failed open for session %s: %v", sessionID, StorageError.Wrap(err))
		return open
	}

	remaining := g.cfg.Quota - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return QuotaResult{Remaining: remaining, Exceeded: int(count) > g.cfg.Quota}
}
