package database

import (
	"fmt"

	analyticsRepo "github.com/xpanvictor/portfolio/internal/repository/analytics"
	blogRepo "github.com/xpanvictor/portfolio/internal/repository/blog"
	chatRepo "github.com/xpanvictor/portfolio/internal/repository/chat"
	leadsRepo "github.com/xpanvictor/portfolio/internal/repository/leads"
	userRepo "github.com/xpanvictor/portfolio/internal/repository/user"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents before children.
func Models() []any {
	return []any{
		&userRepo.UserEntity{},
		&chatRepo.ChatSessionEntity{},
		&chatRepo.ChatMessageEntity{},
		&blogRepo.CategoryEntity{},
		&blogRepo.TagEntity{},
		&blogRepo.PostEntity{},
		&analyticsRepo.PageViewEntity{},
		&leadsRepo.ResumeRequestEntity{},
		&leadsRepo.InquiryEntity{},
	}
}

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
