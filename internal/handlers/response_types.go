package handlers

import (
	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"github.com/xpanvictor/portfolio/internal/domains/user"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
	Code    string `json:"code,omitempty" example:"PERSONAL_EMAIL"`
}

// LoginResponse represents the response for admin login
type LoginResponse struct {
	Message string            `json:"message" example:"Login successful"`
	User    user.UserResponse `json:"user"`
	Tokens  user.AuthTokens   `json:"tokens"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" example:"jwt-refresh-token-here"`
}

// RefreshTokenResponse represents the response for token refresh
type RefreshTokenResponse struct {
	Message string          `json:"message" example:"Token refreshed successfully"`
	Tokens  user.AuthTokens `json:"tokens"`
}

// ProfileResponse represents the authenticated admin
type ProfileResponse struct {
	User user.UserResponse `json:"user"`
}

// PageInfo is page-based pagination as the dashboard renders it
type PageInfo struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"20"`
	Total      int64 `json:"total" example:"150"`
	TotalPages int   `json:"totalPages" example:"8"`
}

func newPageInfo(page, limit int, total int64) PageInfo {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageInfo{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Chat

// StreamChunk is one server-sent event of a chat reply
type StreamChunk struct {
	Content string `json:"content,omitempty" example:"Hello"`
	Error   string `json:"error,omitempty"`
}

type ListSessionsResponse struct {
	Sessions   []chat.Session `json:"sessions"`
	Pagination PageInfo       `json:"pagination"`
}

type SessionResponse struct {
	Session chat.Session `json:"session"`
}

// Blog

type MessageResponse struct {
	Message string `json:"message" example:"Post deleted successfully"`
}

// Leads

type ResumeRequestResponse struct {
	Success     bool   `json:"success" example:"true"`
	DownloadURL string `json:"downloadUrl" example:"/resume.pdf"`
}

type ListResumeRequestsResponse struct {
	Requests   []leads.ResumeRequest `json:"requests"`
	Pagination PageInfo              `json:"pagination"`
}

type InquiryResponse struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Inquiry sent successfully"`
	Inquiry leads.Inquiry `json:"inquiry"`
}

type ListInquiriesResponse struct {
	Inquiries  []leads.Inquiry `json:"inquiries"`
	Pagination PageInfo        `json:"pagination"`
}
