package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	dom "example.com/catalog-admin/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Service struct {
	repo     dom.Repository
	hasher   PasswordHasher
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(repo dom.Repository, hasher PasswordHasher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		hasher:   hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type CreateUserInput struct {
	Name     string `validate:"required,max=255"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8"`
	IsAdmin  bool
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*dom.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("%w: %s failed on %s", dom.ErrInvalidInput, strings.ToLower(fe.Field()), fe.Tag())
		}
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, dom.ErrEmailAlreadyUsed
	} else if !errors.Is(err, dom.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &dom.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", created.ID), zap.Bool("admin", created.IsAdmin))
	return created, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*dom.User, error) {
	return s.repo.GetByID(ctx, id)
}
