package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"portfolio_backend/internal/auth/password"
	"portfolio_backend/internal/auth/repository"
	"portfolio_backend/platform/apperr"
	"portfolio_backend/platform/config"
)

const roleUser = "user"

// Profile is the user information exposed to clients.
type Profile struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Roles       []string
	CreatedAt   time.Time
}

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Register creates an account with the default visitor role. Admin accounts
// are provisioned directly in the database.
func (s *Service) Register(ctx context.Context, email, plainPassword, displayName string) (Profile, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		appErr := apperr.Internal("could not hash password").WithOp("auth.Register")
		appErr.Err = err
		return Profile{}, appErr
	}

	var name *string
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		name = &trimmed
	}

	user, err := s.repo.CreateUser(ctx, strings.ToLower(strings.TrimSpace(email)), hash, name, []string{roleUser})
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

// Login verifies credentials and issues a signed access token.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, Profile, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Same answer for unknown email and wrong password.
		return "", Profile{}, apperr.Unauthorized("invalid credentials").WithOp("auth.Login")
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", Profile{}, apperr.Unauthorized("invalid credentials").WithOp("auth.Login")
	}

	token, err := s.issueAccessToken(user)
	if err != nil {
		appErr := apperr.Internal("could not issue token").WithOp("auth.Login")
		appErr.Err = err
		return "", Profile{}, appErr
	}
	return token, toProfile(user), nil
}

// Me returns the profile behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

func (s *Service) issueAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"roles": user.Roles,
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toProfile(user repository.User) Profile {
	profile := Profile{
		ID:        user.ID,
		Email:     user.Email,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
	if user.DisplayName != nil {
		profile.DisplayName = *user.DisplayName
	}
	return profile
}
