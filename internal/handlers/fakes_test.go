package handlers

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/analytics"
	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"github.com/xpanvictor/portfolio/internal/domains/github"
	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const (
	adminToken  = "admin-token"
	viewerToken = "viewer-token"
	adminID     = "7f0c3f2e-5a1b-4c8e-9d2a-0b1c2d3e4f50"
)

type stubUsers struct{}

func (stubUsers) EnsureAdmin(context.Context, user.AdminSeed) error { return nil }
func (stubUsers) Login(context.Context, user.LoginRequest) (*user.UserResponse, *user.AuthTokens, error) {
	return nil, nil, user.ErrInvalidCredentials
}
func (stubUsers) RefreshToken(context.Context, string) (*user.AuthTokens, error) {
	return nil, user.ErrInvalidToken
}
func (stubUsers) GetProfile(_ context.Context, id string) (*user.UserResponse, error) {
	if id != adminID {
		return nil, user.ErrUserNotFound
	}
	return &user.UserResponse{ID: adminID, Email: "admin@example.com", Role: user.RoleAdmin}, nil
}
func (stubUsers) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	switch token {
	case adminToken:
		return &user.Claims{UserID: adminID, Email: "admin@example.com", Role: user.RoleAdmin}, nil
	case viewerToken:
		return &user.Claims{UserID: adminID, Email: "viewer@example.com", Role: "viewer"}, nil
	}
	return nil, user.ErrInvalidToken
}

// memStore is an in-memory conversation store.
type memStore struct {
	mu       sync.Mutex
	messages map[string][]chat.Role
	calls    int
}

func newMemStore() *memStore {
	return &memStore{messages: map[string][]chat.Role{}}
}

func (s *memStore) GetOrCreateSession(_ context.Context, token string, _ chat.SessionMeta) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return "id-" + token, nil
}

func (s *memStore) AppendMessage(_ context.Context, id string, role chat.Role, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.messages[id] = append(s.messages[id], role)
	return nil
}

func (s *memStore) CountUserMessages(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	var n int64
	for _, r := range s.messages[id] {
		if r == chat.RoleUser {
			n++
		}
	}
	return n, nil
}

type scriptedProvider struct {
	mu      sync.Mutex
	chunks  []string
	openErr error
	calls   int
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (p *scriptedProvider) Stream(ctx context.Context, _ assistant.CompletionRequest) (assistant.Stream, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.openErr != nil {
		return nil, p.openErr
	}
	chunks := p.chunks
	return assistant.NewChanStream(ctx, func(ctx context.Context, emit func(string) error) error {
		for _, c := range chunks {
			if err := emit(c); err != nil {
				return err
			}
		}
		return nil
	}), nil
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type stubChatService struct {
	sessions map[string]*chat.Session
	lastList chat.ListSessionsQuery
}

func (s *stubChatService) ListSessions(_ context.Context, q chat.ListSessionsQuery) ([]chat.Session, int64, error) {
	s.lastList = q
	out := []chat.Session{}
	for _, v := range s.sessions {
		out = append(out, *v)
	}
	return out, 41, nil
}

func (s *stubChatService) GetSession(_ context.Context, id string) (*chat.Session, error) {
	if v, ok := s.sessions[id]; ok {
		return v, nil
	}
	return nil, chat.ErrSessionNotFound
}

func (s *stubChatService) DeleteSession(_ context.Context, id string) error {
	if _, ok := s.sessions[id]; !ok {
		return chat.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

type stubLeads struct {
	resumeErr  error
	inquiryErr error
	visitor    leads.Visitor
}

func (s *stubLeads) RequestResume(_ context.Context, email string, v leads.Visitor) (*leads.ResumeRequest, error) {
	s.visitor = v
	if s.resumeErr != nil {
		return nil, s.resumeErr
	}
	return &leads.ResumeRequest{ID: "r1", Email: email}, nil
}

func (s *stubLeads) SubmitInquiry(_ context.Context, req leads.InquiryRequest) (*leads.Inquiry, error) {
	inquiry := &leads.Inquiry{ID: "i1", ServiceType: req.ServiceType, Name: req.Name, MailStatus: leads.MailSent}
	switch {
	case s.inquiryErr == nil:
		return inquiry, nil
	case s.inquiryErr == leads.ErrDeliveryFailed:
		inquiry.MailStatus = leads.MailFailed
		return inquiry, s.inquiryErr
	default:
		return nil, s.inquiryErr
	}
}

func (s *stubLeads) ListResumeRequests(_ context.Context, offset, limit int) ([]leads.ResumeRequest, int64, error) {
	return nil, 0, nil
}

func (s *stubLeads) ListInquiries(_ context.Context, offset, limit int) ([]leads.Inquiry, int64, error) {
	return []leads.Inquiry{{ID: "i1"}}, 1, nil
}

type stubAnalytics struct {
	trackErr error
	days     int
}

func (s *stubAnalytics) Track(context.Context, analytics.TrackRequest, analytics.Visitor) error {
	return s.trackErr
}

func (s *stubAnalytics) Stats(_ context.Context, days int) (*analytics.Stats, error) {
	s.days = days
	return &analytics.Stats{TotalViews: 3}, nil
}

type stubGitHub struct {
	snap *github.Snapshot
	err  error
}

func (s stubGitHub) Snapshot(context.Context) (*github.Snapshot, error) {
	return s.snap, s.err
}
