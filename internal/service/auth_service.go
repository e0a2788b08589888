package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"suppliers-be/internal/entities"
	"suppliers-be/internal/jwt"
	"suppliers-be/internal/logging"
	"suppliers-be/internal/models"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

type authService struct {
	users      UserService
	jwtService *jwt.JWTService
	log        logging.Logger
	// dummyHash is compared against when the email is unknown so that both
	// failure paths pay for one bcrypt comparison.
	dummyHash []byte
}

// NewAuthService creates a new auth service
func NewAuthService(users UserService, jwtService *jwt.JWTService, bcryptCost int, log logging.Logger) (AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &authService{
		users:      users,
		jwtService: jwtService,
		log:        log.With("component", "auth_service"),
		dummyHash:  dummy,
	}, nil
}

// Signup registers a new account. It does not log the user in.
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.UserResponse, error) {
	user, err := s.users.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return models.NewUserResponse(user), nil
}

// Login verifies credentials and issues an access token. Every failure is
// reported as ErrUnauthorized.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error(ctx, "login lookup failed", "error", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	if !user.IsActive {
		return nil, ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user.Email)
	if err != nil {
		s.log.Error(ctx, "token generation failed", "error", err)
		return nil, ErrUnauthorized
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Message:     "Login successful",
	}, nil
}

// Authenticate resolves a bearer token to an active user. Every failure is
// reported as ErrUnauthorized.
func (s *authService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	email, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error(ctx, "token subject lookup failed", "error", err)
		}
		return nil, ErrUnauthorized
	}

	if !user.IsActive {
		return nil, ErrUnauthorized
	}

	return user, nil
}
