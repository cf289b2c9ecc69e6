package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// User is a dashboard account. The public site has no user accounts.
// @Description Admin account information
type User struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Arun"`
	Email     string    `json:"email" example:"admin@example.com"`
	Role      string    `json:"role" example:"admin"`
	Password  string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"createdAt" example:"2023-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2023-01-01T12:00:00Z"`
}

// LoginRequest represents login credentials
// @Description Request body for admin login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@example.com"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

// UserResponse represents a user without sensitive information
// @Description Admin information returned in API responses (no sensitive data)
type UserResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Arun"`
	Email     string    `json:"email" example:"admin@example.com"`
	Role      string    `json:"role" example:"admin"`
	CreatedAt time.Time `json:"createdAt" example:"2023-01-01T12:00:00Z"`
}

// ToResponse converts a User to UserResponse (removes sensitive data)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// NewAdmin creates an admin with generated ID
func NewAdmin(name, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      RoleAdmin,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
