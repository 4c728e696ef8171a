package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domuser "example.com/catalog-admin/internal/domain/user"
)

type PasswordComparer interface {
	Compare(hash string, password string) error
}

type Claims struct {
	UserID    int64
	Name      string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

// RevocationList remembers logged-out token ids until they would have
// expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Service struct {
	userRepo domuser.Repository
	checker  PasswordComparer
	tokens   TokenService
	revoked  RevocationList
	logger   *zap.Logger
}

func NewService(
	userRepo domuser.Repository,
	checker PasswordComparer,
	tokens TokenService,
	revoked RevocationList,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		userRepo: userRepo,
		checker:  checker,
		tokens:   tokens,
		revoked:  revoked,
		logger:   logger,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domuser.ErrUserNotFound) {
		s.logger.Debug("login failed", zap.String("email", email), zap.String("reason", "unknown email"))
		return nil, domuser.ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}

	if err := s.checker.Compare(u.PasswordHash, in.Password); err != nil {
		s.logger.Debug("login failed", zap.String("email", email), zap.String("reason", "password mismatch"))
		return nil, domuser.ErrInvalidCredential
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", u.ID))
	return &LoginResult{
		Token: token,
		User:  u,
	}, nil
}

// Authenticate turns a session token into the caller's actor. Missing,
// malformed, expired and revoked tokens resolve to the anonymous actor.
// The user is reloaded so a removed account or a changed admin flag takes
// effect on the next request.
func (s *Service) Authenticate(ctx context.Context, token string) (domuser.Actor, error) {
	if token == "" {
		return domuser.Anonymous, nil
	}

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return domuser.Anonymous, nil
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return domuser.Anonymous, err
	}
	if revoked {
		return domuser.Anonymous, nil
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, domuser.ErrUserNotFound) {
		return domuser.Anonymous, nil
	}
	if err != nil {
		return domuser.Anonymous, err
	}
	return u.Actor(), nil
}

// Logout revokes the token. An unparsable token is already unusable, so
// logging it out succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.Int64("user_id", claims.UserID))
	return nil
}
