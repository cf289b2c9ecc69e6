package leads

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"gorm.io/gorm"
)

type ResumeRequestEntity struct {
	ID        string    `gorm:"primaryKey;type:char(36);not null"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Domain    string    `gorm:"type:varchar(191);not null;index"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent string    `gorm:"column:user_agent;type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime(3);index"`
}

func (ResumeRequestEntity) TableName() string {
	return "resume_downloads"
}

func (r *ResumeRequestEntity) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func (r *ResumeRequestEntity) ToDomain() leads.ResumeRequest {
	return leads.ResumeRequest{
		ID:        r.ID,
		Email:     r.Email,
		Domain:    r.Domain,
		IPAddress: r.IPAddress,
		UserAgent: r.UserAgent,
		CreatedAt: r.CreatedAt,
	}
}

func NewResumeRequestEntity(r *leads.ResumeRequest) *ResumeRequestEntity {
	return &ResumeRequestEntity{
		ID:        r.ID,
		Email:     r.Email,
		Domain:    r.Domain,
		IPAddress: r.IPAddress,
		UserAgent: r.UserAgent,
		CreatedAt: r.CreatedAt,
	}
}

type InquiryEntity struct {
	ID          string    `gorm:"primaryKey;type:char(36);not null"`
	ServiceType string    `gorm:"column:service_type;type:varchar(16);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Email       string    `gorm:"type:varchar(255);not null"`
	Phone       string    `gorm:"type:varchar(64)"`
	Subject     string    `gorm:"type:varchar(255);not null"`
	Message     string    `gorm:"type:text;not null"`
	MailStatus  string    `gorm:"column:mail_status;type:varchar(16);not null;default:pending"`
	CreatedAt   time.Time `gorm:"autoCreateTime(3);index"`
}

func (InquiryEntity) TableName() string {
	return "service_inquiries"
}

func (i *InquiryEntity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (i *InquiryEntity) ToDomain() leads.Inquiry {
	return leads.Inquiry{
		ID:          i.ID,
		ServiceType: leads.ServiceType(i.ServiceType),
		Name:        i.Name,
		Email:       i.Email,
		Phone:       i.Phone,
		Subject:     i.Subject,
		Message:     i.Message,
		MailStatus:  leads.MailStatus(i.MailStatus),
		CreatedAt:   i.CreatedAt,
	}
}

func NewInquiryEntity(i *leads.Inquiry) *InquiryEntity {
	return &InquiryEntity{
		ID:          i.ID,
		ServiceType: string(i.ServiceType),
		Name:        i.Name,
		Email:       i.Email,
		Phone:       i.Phone,
		Subject:     i.Subject,
		Message:     i.Message,
		MailStatus:  string(i.MailStatus),
		CreatedAt:   i.CreatedAt,
	}
}
