package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"gorm.io/gorm"
)

// UserEntity represents the database entity for User with GORM tags
type UserEntity struct {
	ID        string         `gorm:"primaryKey;type:char(36);not null"`
	Name      string         `gorm:"column:name;type:varchar(255);not null"`
	Email     string         `gorm:"uniqueIndex;type:varchar(191);not null"`
	Role      string         `gorm:"type:varchar(32);not null;default:admin"`
	Password  string         `gorm:"column:password_hash;type:char(60);not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime(3)"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime(3)"`
	DeletedAt gorm.DeletedAt `gorm:"index"` // For soft delete
}

// TableName returns the table name for GORM
func (UserEntity) TableName() string {
	return "admin_users"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (u *UserEntity) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// ToDomain converts UserEntity to domain User
func (u *UserEntity) ToDomain() *user.User {
	return &user.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromDomain converts domain User to UserEntity
func (u *UserEntity) FromDomain(domainUser *user.User) {
	u.ID = domainUser.ID
	u.Name = domainUser.Name
	u.Email = domainUser.Email
	u.Role = domainUser.Role
	u.Password = domainUser.Password
	u.CreatedAt = domainUser.CreatedAt
	u.UpdatedAt = domainUser.UpdatedAt
}

// NewUserEntityFromDomain creates a new UserEntity from domain User
func NewUserEntityFromDomain(domainUser *user.User) *UserEntity {
	entity := &UserEntity{}
	entity.FromDomain(domainUser)
	return entity
}
