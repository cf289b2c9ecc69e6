package assistant

import (
	"context"
	"sync"
)

// Producer pushes increments through emit until the upstream is exhausted.
// emit returns an error once the consumer has gone away.
type Producer func(ctx context.Context, emit func(string) error) error

type chanStream struct {
	ch      chan string
	cancel  context.CancelFunc
	current string
	err     error
	once    sync.Once
}

// NewChanStream adapts a callback-style upstream into a pull Stream. The
// producer runs in its own goroutine and is cancelled by Close.
func NewChanStream(ctx context.Context, produce Producer) Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &chanStream{
		ch:     make(chan string),
		cancel: cancel,
	}
	go func() {
		defer close(s.ch)
		err := produce(ctx, func(text string) error {
			if text == "" {
				return nil
			}
			select {
			case s.ch <- text:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		s.err = err
	}()
	return s
}

func (s *chanStream) Next() bool {
	text, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = text
	return true
}

func (s *chanStream) Current() string { return s.current }

// Err is only meaningful after Next has returned false.
func (s *chanStream) Err() error { return s.err }

func (s *chanStream) Close() error {
	s.once.Do(func() {
		s.cancel()
		// drain so the producer goroutine can exit
		for range s.ch {
		}
	})
	return nil
}
