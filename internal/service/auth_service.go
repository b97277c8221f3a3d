package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blog_platform/internal/model"
	"blog_platform/internal/repository"
	"blog_platform/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, email string, fullName *string, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new user account. Role assignment happens inside the
// repository's registration transaction: the first account ever created
// becomes the administrator, everyone after that is an ordinary user.
func (s *authService) Register(ctx context.Context, email string, fullName *string, password string) (*model.User, string, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The FindByEmail check above can race another registration; the DB
		// unique index reports it here.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}
	if user.Role == model.RoleAdmin {
		log.Printf("INFO: first registered user %s assigned the admin role", user.Email)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("ERROR: User %s (ID: %d) created, but failed to generate token: %v", user.Email, user.ID, err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
