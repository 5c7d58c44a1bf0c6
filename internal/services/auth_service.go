package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/groupstage/groupstage-backend/internal/config"
	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
	"github.com/groupstage/groupstage-backend/internal/utils"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.AdminUser, error)
}

type authService struct {
	adminUserRepo repositories.AdminUserRepository
	cfg           *config.Config
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(adminUserRepo repositories.AdminUserRepository, cfg *config.Config) AuthService {
	return &authService{
		adminUserRepo: adminUserRepo,
		cfg:           cfg,
	}
}

// Register creates a new admin account
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error) {
	_, err := s.adminUserRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      "admin",
	}
	if err := s.adminUserRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("admin account registered", "userId", user.ID.Hex(), "email", user.Email)
	return user, nil
}

// Login verifies credentials and returns a signed token with the account
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.AdminUser, error) {
	user, err := s.adminUserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role, s.cfg)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("admin logged in", "userId", user.ID.Hex(), "email", user.Email)
	return token, user, nil
}
