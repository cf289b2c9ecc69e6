package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/portfolio/internal/domains/user"
	"gorm.io/gorm"
)

type GormUserRepo struct {
	db *gorm.DB
}

// Create implements user.UserRepository
func (g *GormUserRepo) Create(ctx context.Context, u *user.User) error {
	entity := NewUserEntityFromDomain(u)
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Update domain object with any changes from database (like auto-generated fields)
	*u = *entity.ToDomain()
	return nil
}

// GetByID implements user.UserRepository
func (g *GormUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// GetByEmail implements user.UserRepository
func (g *GormUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return entity.ToDomain(), nil
}

// EmailExists implements user.UserRepository
func (g *GormUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&UserEntity{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// NewGormUserRepo creates a new GORM-based user repository
func NewGormUserRepo(db *gorm.DB) user.UserRepository {
	return &GormUserRepo{db: db}
}
