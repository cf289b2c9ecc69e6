package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/internal/domains/blog"
	"github.com/xpanvictor/portfolio/internal/domains/github"
	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"github.com/xpanvictor/portfolio/internal/domains/profile"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

func serve(r *gin.Engine, method, target, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, _ := json.Marshal(v)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/126.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMe(t *testing.T) {
	r := gin.New()
	NewAuthHandler(stubUsers{}, Logger.Nop()).RegisterAuthRoutes(r.Group("/api"))

	rec := serve(r, http.MethodGet, "/api/auth/me", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, adminID, out.User.ID)

	rec = serve(r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.co", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResumeRequest(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"ok", nil, http.StatusOK, `{"success":true,"downloadUrl":"/resume.pdf"}`},
		{"personal", leads.ErrPersonalEmail, http.StatusBadRequest, `{"error":"Please use your work email. This resume is intended for professional/recruitment purposes only.","code":"PERSONAL_EMAIL"}`},
		{"invalid", leads.ErrInvalidEmail, http.StatusBadRequest, `{"error":"Please enter a valid email address"}`},
		{"store down", errors.New("db gone"), http.StatusInternalServerError, `{"error":"Something went wrong. Please try again."}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubLeads{resumeErr: tc.err}
			r := gin.New()
			NewLeadsHandler(svc, stubUsers{}, false, Logger.Nop()).RegisterLeadsRoutes(r.Group("/api"))

			rec := serve(r, http.MethodPost, "/api/resume-request", "", leads.ResumeRequestBody{Email: "jane@acme.io"})
			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
			assert.Equal(t, "192.0.2.1", svc.visitor.IPAddress)
			assert.Contains(t, svc.visitor.UserAgent, "Firefox")
		})
	}
}

func TestSubmitInquiry(t *testing.T) {
	body := leads.InquiryRequest{ServiceType: leads.ServiceETL, Name: "Jane", Email: "jane@acme.io"}

	for _, tc := range []struct {
		name string
		err  error
		code int
	}{
		{"sent", nil, http.StatusCreated},
		{"mail down", leads.ErrDeliveryFailed, http.StatusBadGateway},
		{"invalid", leads.ErrInvalidInquiry, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewLeadsHandler(&stubLeads{inquiryErr: tc.err}, stubUsers{}, false, Logger.Nop()).RegisterLeadsRoutes(r.Group("/api"))

			rec := serve(r, http.MethodPost, "/api/inquiries", "", body)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusBadGateway {
				var out InquiryResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
				assert.False(t, out.Success)
				assert.Equal(t, leads.MailFailed, out.Inquiry.MailStatus)
			}
		})
	}
}

func TestLeadsAdminListing(t *testing.T) {
	r := gin.New()
	NewLeadsHandler(&stubLeads{}, stubUsers{}, false, Logger.Nop()).RegisterLeadsRoutes(r.Group("/api"))

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/inquiries", "", nil).Code)

	rec := serve(r, http.MethodGet, "/api/resume-requests", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"requests":[],"pagination":{"page":1,"limit":50,"total":0,"totalPages":0}}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/inquiries?limit=500", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out ListInquiriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 200, out.Pagination.Limit)
}

func TestAnalyticsTrackNeverFails(t *testing.T) {
	svc := &stubAnalytics{}
	r := gin.New()
	NewAnalyticsHandler(svc, stubUsers{}, false, Logger.Nop()).RegisterAnalyticsRoutes(r.Group("/api"))

	rec := serve(r, http.MethodPost, "/api/analytics/track", "", map[string]string{"pagePath": "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	svc.trackErr = errors.New("db gone")
	rec = serve(r, http.MethodPost, "/api/analytics/track", "", map[string]string{"pagePath": "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())

	rec = serve(r, http.MethodPost, "/api/analytics/track", "", "{broken")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
}

func TestAnalyticsStats(t *testing.T) {
	svc := &stubAnalytics{}
	r := gin.New()
	NewAnalyticsHandler(svc, stubUsers{}, false, Logger.Nop()).RegisterAnalyticsRoutes(r.Group("/api"))

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/analytics/stats", viewerToken, nil).Code)

	rec := serve(r, http.MethodGet, "/api/analytics/stats?days=7", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.days)

	serve(r, http.MethodGet, "/api/analytics/stats?days=abc", adminToken, nil)
	assert.Equal(t, 30, svc.days)
}

func TestContentRoutes(t *testing.T) {
	p := profile.Profile{PersonalInfo: profile.PersonalInfo{Name: "Jane"}}
	snap := &github.Snapshot{User: github.User{Login: "octo"}, Stale: true}

	r := gin.New()
	NewContentHandler(p, stubGitHub{snap: snap}, Logger.Nop()).RegisterContentRoutes(r.Group("/api"))

	rec := serve(r, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Jane"`)

	rec = serve(r, http.MethodGet, "/api/github", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stale":true`)

	r = gin.New()
	NewContentHandler(p, stubGitHub{err: github.ErrUnavailable}, Logger.Nop()).RegisterContentRoutes(r.Group("/api"))
	rec = serve(r, http.MethodGet, "/api/github", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch GitHub data"}`, rec.Body.String())
}

// stubBlog answers with fixed results; only the methods the tests hit do anything.
type stubBlog struct {
	blog.BlogService
	createErr error
	author    string
}

func (s *stubBlog) ListPublished(context.Context, int) ([]blog.Post, error) { return nil, nil }

func (s *stubBlog) GetPublishedBySlug(_ context.Context, slug string) (*blog.Post, error) {
	if slug != "hello" {
		return nil, blog.ErrPostNotFound
	}
	return &blog.Post{Slug: slug}, nil
}

func (s *stubBlog) CreatePost(_ context.Context, author string, req blog.CreatePostRequest) (*blog.Post, error) {
	s.author = author
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &blog.Post{Title: req.Title}, nil
}

func TestBlogRoutes(t *testing.T) {
	svc := &stubBlog{}
	r := gin.New()
	NewBlogHandler(svc, stubUsers{}, Logger.Nop()).RegisterBlogRoutes(r.Group("/api"))

	rec := serve(r, http.MethodGet, "/api/blogs", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/blogs/hello", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/blogs/draft", "", nil).Code)

	post := blog.CreatePostRequest{Title: "Hi", Content: "body"}
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/api/admin/blogs", "", post).Code)

	rec = serve(r, http.MethodPost, "/api/admin/blogs", adminToken, post)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, adminID, svc.author)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/api/admin/blogs", adminToken, map[string]string{"title": "no content"}).Code)

	svc.createErr = blog.ErrSlugExists
	rec = serve(r, http.MethodPost, "/api/admin/blogs", adminToken, post)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Slug already exists"}`, rec.Body.String())
}
