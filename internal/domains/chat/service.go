package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/portfolio/pkg/Logger"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListSessionsQuery is what the admin dashboard sends.
// @Description Query parameters for listing chat sessions
type ListSessionsQuery struct {
	Page   int    `form:"page" example:"1"`
	Limit  int    `form:"limit" example:"20"`
	Search string `form:"search" example:"Chrome"`
}

// Normalize clamps paging to sane values.
func (q ListSessionsQuery) Normalize() ListSessionsQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// ChatService is the admin view over recorded conversations.
type ChatService interface {
	ListSessions(ctx context.Context, q ListSessionsQuery) ([]Session, int64, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type chatService struct {
	repository ChatRepository
	logger     *Logger.Logger
}

func (s *chatService) ListSessions(ctx context.Context, q ListSessionsQuery) ([]Session, int64, error) {
	q = q.Normalize()
	sessions, total, err := s.repository.ListSessions(ctx, ListSessionsRequest{
		Search: q.Search,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		s.logger.Errorf("error listing chat sessions: %v", err)
		return nil, 0, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, total, nil
}

func (s *chatService) GetSession(ctx context.Context, id string) (*Session, error) {
	session, err := s.repository.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Errorf("error getting chat session: %v", err)
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return session, nil
}

func (s *chatService) DeleteSession(ctx context.Context, id string) error {
	if err := s.repository.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		s.logger.Errorf("error deleting chat session: %v", err)
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	s.logger.Infof("chat session deleted: %s", id)
	return nil
}

func NewChatService(repository ChatRepository, logger *Logger.Logger) ChatService {
	return &chatService{
		repository: repository,
		logger:     logger,
	}
}
