package github

import (
	"context"
	"errors"
	"time"

	"github.com/xpanvictor/portfolio/pkg/Logger"
	"golang.org/x/sync/singleflight"
)

var (
	ErrUpstream    = errors.New("github api error")
	ErrUnavailable = errors.New("failed to fetch github data")
)

type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

type GitHubService interface {
	// Snapshot returns a fresh snapshot, the cached one inside the TTL, or
	// the last good one marked stale when GitHub can't be reached.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type gitHubService struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time
	logger  *Logger.Logger
}

func (s *gitHubService) Snapshot(ctx context.Context) (*Snapshot, error) {
	cached, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Warnf("github cache read failed: %v", err)
		cached = nil
	}
	if cached != nil && s.now().Sub(cached.StoredAt) < s.ttl {
		snap := cached.Snapshot
		return &snap, nil
	}

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		// detached so one caller hanging up doesn't fail the others
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		return s.fetcher.Fetch(fetchCtx)
	})
	if err != nil {
		s.logger.Errorf("error fetching github data: %v", err)
		if cached != nil {
			snap := cached.Snapshot
			snap.Stale = true
			return &snap, nil
		}
		return nil, ErrUnavailable
	}

	snap := *v.(*Snapshot)
	snap.FetchedAt = s.now().UTC()
	if err := s.cache.Store(ctx, Entry{Snapshot: snap, StoredAt: s.now()}); err != nil {
		s.logger.Warnf("github cache write failed: %v", err)
	}
	return &snap, nil
}

func NewGitHubService(fetcher Fetcher, cache Cache, ttl time.Duration, logger *Logger.Logger) GitHubService {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &gitHubService{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}
