package leads

import (
	"context"
	"fmt"

	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"gorm.io/gorm"
)

type GormLeadsRepo struct {
	db *gorm.DB
}

// CreateResumeRequest implements leads.LeadsRepository
func (g *GormLeadsRepo) CreateResumeRequest(ctx context.Context, r *leads.ResumeRequest) error {
	if err := g.db.WithContext(ctx).Create(NewResumeRequestEntity(r)).Error; err != nil {
		return fmt.Errorf("failed to create resume request: %w", err)
	}
	return nil
}

// ListResumeRequests implements leads.LeadsRepository
func (g *GormLeadsRepo) ListResumeRequests(ctx context.Context, offset, limit int) ([]leads.ResumeRequest, int64, error) {
	db := g.db.WithContext(ctx)

	var total int64
	if err := db.Model(&ResumeRequestEntity{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resume requests: %w", err)
	}

	var entities []ResumeRequestEntity
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list resume requests: %w", err)
	}

	out := make([]leads.ResumeRequest, len(entities))
	for i := range entities {
		out[i] = entities[i].ToDomain()
	}
	return out, total, nil
}

// CreateInquiry implements leads.LeadsRepository
func (g *GormLeadsRepo) CreateInquiry(ctx context.Context, i *leads.Inquiry) error {
	if err := g.db.WithContext(ctx).Create(NewInquiryEntity(i)).Error; err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	return nil
}

// UpdateMailStatus implements leads.LeadsRepository
func (g *GormLeadsRepo) UpdateMailStatus(ctx context.Context, id string, status leads.MailStatus) error {
	err := g.db.WithContext(ctx).Model(&InquiryEntity{}).
		Where("id = ?", id).
		Update("mail_status", string(status)).Error
	if err != nil {
		return fmt.Errorf("failed to update inquiry mail status: %w", err)
	}
	return nil
}

// ListInquiries implements leads.LeadsRepository
func (g *GormLeadsRepo) ListInquiries(ctx context.Context, offset, limit int) ([]leads.Inquiry, int64, error) {
	db := g.db.WithContext(ctx)

	var total int64
	if err := db.Model(&InquiryEntity{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inquiries: %w", err)
	}

	var entities []InquiryEntity
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}

	out := make([]leads.Inquiry, len(entities))
	for i := range entities {
		out[i] = entities[i].ToDomain()
	}
	return out, total, nil
}

func NewGormLeadsRepo(db *gorm.DB) leads.LeadsRepository {
	return &GormLeadsRepo{db: db}
}
