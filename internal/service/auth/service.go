package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/repository"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/auth"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/security"
)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
	}
}

// Signup registers a patient account. The role is forced to patient; admin
// accounts are only created through RegisterAdmin.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	return s.register(ctx, req.FullName, req.Email, req.Password, model.RolePatient)
}

// RegisterAdmin creates an admin account; the route is admin-guarded.
func (s *Service) RegisterAdmin(ctx context.Context, req *model.RegisterAdminRequest) (*model.User, error) {
	return s.register(ctx, req.FullName, req.Email, req.Password, model.RoleAdmin)
}

func (s *Service) register(ctx context.Context, fullName, email, password string, role model.Role) (*model.User, error) {
	existing, _ := s.userRepo.GetByEmail(ctx, email)
	if existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token carrying the role.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid email or password"))
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid email or password"))
	}

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
