package chat

import (
	"context"
	"sync"
	"time"

	"github.com/xpanvictor/portfolio/pkg/Logger"
)

// MessageAppender is the slice of the store the recorder writes through.
type MessageAppender interface {
	AppendMessage(ctx context.Context, sessionID string, role Role, content string) error
}

type TranscriptJob struct {
	Binding Binding
	Role    Role
	Content string
}

// Recorder persists finished transcripts off the request path. Submit never
// blocks: when the queue is full the job is dropped and logged.
type Recorder struct {
	store   MessageAppender
	timeout time.Duration
	logger  *Logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan TranscriptJob
	done   chan struct{}
}

func NewRecorder(store MessageAppender, queueSize int, timeout time.Duration, logger *Logger.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Recorder{
		store:   store,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan TranscriptJob, queueSize),
		done:    make(chan struct{}),
	}
	go r.work()
	return r
}

func (r *Recorder) Submit(job TranscriptJob) bool {
	if _, ok := job.Binding.SessionID(); !ok || job.Content == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warnf("recorder closed, dropping %s message for session %s", job.Role, job.Binding)
		return false
	}
	select {
	case r.queue <- job:
		return true
	default:
		r.logger.Warnf("recorder queue full, dropping %s message for session %s", job.Role, job.Binding)
		return false
	}
}

func (r *Recorder) work() {
	defer close(r.done)
	for job := range r.queue {
		r.write(job)
	}
}

func (r *Recorder) write(job TranscriptJob) {
	sessionID, _ := job.Binding.SessionID()
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.store.AppendMessage(ctx, sessionID, job.Role, job.Content); err != nil {
		r.logger.Errorf("failed to record %s message for session %s: %v", job.Role, sessionID, StorageError.Wrap(err))
	}
}

// Close stops accepting jobs and waits for queued ones to be written, or for
// ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
