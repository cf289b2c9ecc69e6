package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/mailer"
)

// Common errors
var (
	ErrEmailRequired  = errors.New("email is required")
	ErrInvalidEmail   = errors.New("please enter a valid email address")
	ErrPersonalEmail  = errors.New("please use your work email. This resume is intended for professional/recruitment purposes only")
	ErrInvalidInquiry = errors.New("invalid inquiry")
	// ErrDeliveryFailed means the inquiry was stored but the owner was not
	// notified.
	ErrDeliveryFailed = errors.New("failed to send inquiry")
)

const ResumeDownloadURL = "/resume.pdf"

// Visitor is what the transport layer knows about the caller.
type Visitor struct {
	IPAddress string
	UserAgent string
}

type LeadsService interface {
	RequestResume(ctx context.Context, email string, visitor Visitor) (*ResumeRequest, error)
	SubmitInquiry(ctx context.Context, req InquiryRequest) (*Inquiry, error)
	ListResumeRequests(ctx context.Context, offset, limit int) ([]ResumeRequest, int64, error)
	ListInquiries(ctx context.Context, offset, limit int) ([]Inquiry, int64, error)
}

type leadsService struct {
	repository LeadsRepository
	mail       mailer.Sender
	logger     *Logger.Logger
	now        func() time.Time
}

func (s *leadsService) RequestResume(ctx context.Context, email string, visitor Visitor) (*ResumeRequest, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if IsPersonalEmail(email) {
		return nil, ErrPersonalEmail
	}

	req := &ResumeRequest{
		ID:        uuid.New().String(),
		Email:     email,
		Domain:    Domain(email),
		IPAddress: visitor.IPAddress,
		UserAgent: visitor.UserAgent,
		CreatedAt: s.now(),
	}
	if err := s.repository.CreateResumeRequest(ctx, req); err != nil {
		s.logger.Errorf("error storing resume request: %v", err)
		return nil, fmt.Errorf("failed to store resume request: %w", err)
	}

	s.logger.Infof("resume requested by %s", req.Domain)
	return req, nil
}

// SubmitInquiry stores the inquiry before mailing it, so a mail outage never
// loses a lead. On mail failure the stored inquiry is returned together with
// ErrDeliveryFailed.
func (s *leadsService) SubmitInquiry(ctx context.Context, req InquiryRequest) (*Inquiry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inquiry := &Inquiry{
		ID:          uuid.New().String(),
		ServiceType: req.ServiceType,
		Name:        req.Name,
		Email:       NormalizeEmail(req.Email),
		Phone:       req.Phone,
		Subject:     req.Subject(),
		Message:     req.FormatMessage(),
		MailStatus:  MailPending,
		CreatedAt:   s.now(),
	}
	if err := s.repository.CreateInquiry(ctx, inquiry); err != nil {
		s.logger.Errorf("error storing inquiry: %v", err)
		return nil, fmt.Errorf("failed to store inquiry: %w", err)
	}

	sendErr := s.mail.Send(ctx, mailer.Message{
		FromName:  inquiry.Name,
		FromEmail: inquiry.Email,
		Subject:   inquiry.Subject,
		Body:      inquiry.Message,
	})

	inquiry.MailStatus = MailSent
	if sendErr != nil {
		inquiry.MailStatus = MailFailed
		s.logger.Errorf("inquiry %s stored but not delivered: %v", inquiry.ID, sendErr)
	}
	if err := s.repository.UpdateMailStatus(context.WithoutCancel(ctx), inquiry.ID, inquiry.MailStatus); err != nil {
		s.logger.Warnf("failed to record mail status for inquiry %s: %v", inquiry.ID, err)
	}

	if sendErr != nil {
		return inquiry, fmt.Errorf("%w: %v", ErrDeliveryFailed, sendErr)
	}
	s.logger.Infof("inquiry %s delivered (%s)", inquiry.ID, inquiry.ServiceType)
	return inquiry, nil
}

func (s *leadsService) ListResumeRequests(ctx context.Context, offset, limit int) ([]ResumeRequest, int64, error) {
	items, total, err := s.repository.ListResumeRequests(ctx, offset, limit)
	if err != nil {
		s.logger.Errorf("error listing resume requests: %v", err)
		return nil, 0, fmt.Errorf("failed to list resume requests: %w", err)
	}
	return items, total, nil
}

func (s *leadsService) ListInquiries(ctx context.Context, offset, limit int) ([]Inquiry, int64, error) {
	items, total, err := s.repository.ListInquiries(ctx, offset, limit)
	if err != nil {
		s.logger.Errorf("error listing inquiries: %v", err)
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return items, total, nil
}

func NewLeadsService(repository LeadsRepository, mail mailer.Sender, logger *Logger.Logger) LeadsService {
	return &leadsService{
		repository: repository,
		mail:       mail,
		logger:     logger,
		now:        time.Now,
	}
}
