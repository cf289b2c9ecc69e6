package leads

import (
	"context"
	"time"
)

// ResumeRequest records who downloaded the resume.
// @Description Resume download record
type ResumeRequest struct {
	ID        string    `json:"id"`
	Email     string    `json:"email" example:"jane@acme.io"`
	Domain    string    `json:"domain" example:"acme.io"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// @Description Request body for a resume download
type ResumeRequestBody struct {
	Email string `json:"email" example:"jane@acme.io"`
}

type MailStatus string

const (
	MailPending MailStatus = "pending"
	MailSent    MailStatus = "sent"
	MailFailed  MailStatus = "failed"
)

// Inquiry is a stored service inquiry and its delivery state.
// @Description Service inquiry
type Inquiry struct {
	ID          string      `json:"id"`
	ServiceType ServiceType `json:"serviceType" example:"etl"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Subject     string      `json:"subject"`
	Message     string      `json:"message"`
	MailStatus  MailStatus  `json:"mailStatus" example:"sent" enums:"pending,sent,failed"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type LeadsRepository interface {
	CreateResumeRequest(ctx context.Context, r *ResumeRequest) error
	ListResumeRequests(ctx context.Context, offset, limit int) ([]ResumeRequest, int64, error)
	CreateInquiry(ctx context.Context, i *Inquiry) error
	UpdateMailStatus(ctx context.Context, id string, status MailStatus) error
	ListInquiries(ctx context.Context, offset, limit int) ([]Inquiry, int64, error)
}
