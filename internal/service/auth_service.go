package service

import (
	"context"
	"errors"

	"banca/config"
	"banca/internal/auth"
	"banca/internal/domain"
	"banca/internal/models"
	"banca/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrSuspended    = errors.New("account suspended")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Register creates a PENDING user with zero balances. The account flips to
// ACTIVE on its first confirmed deposit.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.UserStatusPending,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", "", err
	}
	return s.issueTokens(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if u.Status == domain.UserStatusSuspended {
		return nil, "", "", ErrSuspended
	}
	return s.issueTokens(u)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", err
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", "", err
	}
	if u.Status == domain.UserStatusSuspended {
		return nil, "", "", ErrSuspended
	}
	return s.issueTokens(u)
}

func (s *AuthService) issueTokens(u *models.User) (*models.User, string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}
