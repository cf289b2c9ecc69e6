package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/internal/domains/analytics"
	"gorm.io/gorm"
)

// PageViewEntity represents the database entity for PageView with GORM tags
type PageViewEntity struct {
	ID        string    `gorm:"primaryKey;type:char(36);not null"`
	PagePath  string    `gorm:"column:page_path;type:varchar(512);not null;index"`
	Referrer  string    `gorm:"type:varchar(1024)"`
	UserAgent string    `gorm:"column:user_agent;type:text"`
	Device    string    `gorm:"type:varchar(32)"`
	Browser   string    `gorm:"type:varchar(64)"`
	OS        string    `gorm:"column:os;type:varchar(64)"`
	Country   string    `gorm:"type:varchar(64)"`
	SessionID string    `gorm:"column:session_id;type:varchar(100);index"`
	CreatedAt time.Time `gorm:"autoCreateTime(3);index"`
}

// TableName returns the table name for GORM
func (PageViewEntity) TableName() string {
	return "page_views"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (p *PageViewEntity) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (p *PageViewEntity) ToDomain() *analytics.PageView {
	return &analytics.PageView{
		ID:        p.ID,
		PagePath:  p.PagePath,
		Referrer:  p.Referrer,
		UserAgent: p.UserAgent,
		Device:    p.Device,
		Browser:   p.Browser,
		OS:        p.OS,
		Country:   p.Country,
		SessionID: p.SessionID,
		CreatedAt: p.CreatedAt,
	}
}

func NewPageViewEntityFromDomain(v *analytics.PageView) *PageViewEntity {
	return &PageViewEntity{
		ID:        v.ID,
		PagePath:  v.PagePath,
		Referrer:  v.Referrer,
		UserAgent: v.UserAgent,
		Device:    v.Device,
		Browser:   v.Browser,
		OS:        v.OS,
		Country:   v.Country,
		SessionID: v.SessionID,
		CreatedAt: v.CreatedAt,
	}
}
