package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAdminNotConfigured = errors.New("admin credentials not configured")
)

// AuthTokens represents JWT tokens for authentication
// @Description JWT authentication tokens
type AuthTokens struct {
	AccessToken  string    `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expiresAt" example:"2023-01-02T12:00:00Z"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AdminSeed is the account created on first boot.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// UserService defines the interface for admin authentication
type UserService interface {
	EnsureAdmin(ctx context.Context, seed AdminSeed) error
	Login(ctx context.Context, req LoginRequest) (*UserResponse, *AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error)
	GetProfile(ctx context.Context, userID string) (*UserResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

type userService struct {
	repository UserRepository
	logger     *Logger.Logger
	jwtSecret  string
	tokenTTL   time.Duration
}

// EnsureAdmin creates the seeded admin when no account has its email yet.
// An existing account is left alone, password included.
func (s *userService) EnsureAdmin(ctx context.Context, seed AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" || seed.Password == "" {
		return ErrAdminNotConfigured
	}

	exists, err := s.repository.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	name := seed.Name
	if name == "" {
		name = "Admin"
	}
	admin := NewAdmin(name, email, string(hashedPassword))
	if err := s.repository.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Infof("admin account seeded: %s", email)
	return nil
}

// Login implements UserService
func (s *userService) Login(ctx context.Context, req LoginRequest) (*UserResponse, *AuthTokens, error) {
	user, err := s.repository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Errorf("error getting user by email: %v", err)
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		s.logger.Errorf("error generating tokens: %v", err)
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Infof("admin logged in: %s (%s)", user.ID, user.Email)
	response := user.ToResponse()
	return &response, tokens, nil
}

// RefreshToken implements UserService
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.ValidateToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// Verify user still exists
	user, err := s.repository.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	newTokens, err := s.generateTokens(user)
	if err != nil {
		s.logger.Errorf("error generating new tokens: %v", err)
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return newTokens, nil
}

// GetProfile implements UserService
func (s *userService) GetProfile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := user.ToResponse()
	return &response, nil
}

// ValidateToken implements UserService
func (s *userService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *userService) signClaims(user *User, expiresAt, issuedAt time.Time) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   user.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

// Helper function to generate JWT tokens
func (s *userService) generateTokens(user *User) (*AuthTokens, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	accessToken, err := s.signClaims(user, expiresAt, now)
	if err != nil {
		return nil, err
	}

	// Refresh token lives 24x longer
	refreshToken, err := s.signClaims(user, now.Add(s.tokenTTL*24), now)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// NewUserService creates a new user service
func NewUserService(repository UserRepository, logger *Logger.Logger, jwtSecret string, tokenTTL time.Duration) UserService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour // default 24 hours
	}

	return &userService{
		repository: repository,
		logger:     logger,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}
