// Package service implements operator authentication: credential checks,
// JWT issuance, and refresh token rotation.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"leadmarket_backend/internal/auth/password"
	"leadmarket_backend/internal/auth/repository"
	"leadmarket_backend/internal/auth/token"
	"leadmarket_backend/internal/auth/transport"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/config"
	"leadmarket_backend/platform/logger"
)

const (
	accessTokenType = "access"

	refreshTokenBytes = 48

	// RoleOperator can read data and run distribution; RoleAdmin can also
	// mutate agencies, territories, and lead status.
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// Service orchestrates operator authentication.
type Service struct {
	repo *repository.Repository
	cfg  config.JWTConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg config.JWTConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// SignIn checks credentials and issues a token pair. Unknown emails and
// wrong passwords get the same answer.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	s.log.Info("user signed in", "user_id", user.ID.String())

	return s.issueTokens(ctx, user.ID, user.Roles)
}

// Refresh rotates a refresh token and issues a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (transport.AuthResponse, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.AuthResponse{}, apperr.Unauthorized("refresh token expired")
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return transport.AuthResponse{}, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	return s.issueTokens(ctx, user.ID, user.Roles)
}

// SignOut revokes a refresh token. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// CreateUser registers an operator account. Callers without explicit roles
// get the operator role.
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.ProfileResponse, error) {
	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{RoleOperator}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.ProfileResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, req.Email, hash, roles)
	if err != nil {
		return transport.ProfileResponse{}, err
	}

	s.log.Info("user created", "user_id", user.ID.String(), "roles", roles)

	return toProfileResponse(user), nil
}

// GetMe returns the caller's own account.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (transport.ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

// SetUserRoles replaces an operator's role set and revokes their sessions
// so the new claims take effect on next sign-in.
func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	if err := s.repo.SetUserRoles(ctx, userID, roles); err != nil {
		return err
	}
	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID, roles []string) (transport.AuthResponse, error) {
	accessToken, err := s.signJWT(userID, roles, s.cfg.GetAccessTokenTTL(), accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return transport.AuthResponse{}, err
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, hash, expiresAt); err != nil {
		return transport.AuthResponse{}, err
	}

	return transport.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration, tokenType, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}

func toProfileResponse(u repository.User) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
