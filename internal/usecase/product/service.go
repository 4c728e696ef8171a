package product

import (
	"context"
	"math"

	"go.uber.org/zap"

	dom "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
)

// PageSize is the fixed number of products per listed page.
const PageSize = 10

const maxPage = math.MaxInt32 / PageSize

// Service is the product catalog. Every operation authorizes the actor
// first and validates input before writing to the repository.
type Service struct {
	repo   dom.Repository
	logger *zap.Logger
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(repo dom.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, actor domuser.Actor, page int) (*dom.Page, error) {
	if err := actor.Require(domuser.TierUser); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	items, total, err := s.repo.List(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}
	return dom.NewPage(items, page, PageSize, total), nil
}

// AuthorizeManage gates the create form; it is the same check every
// mutating operation performs.
func (s *Service) AuthorizeManage(actor domuser.Actor) error {
	return actor.Require(domuser.TierAdmin)
}

func (s *Service) Get(ctx context.Context, actor domuser.Actor, id int64) (*dom.Product, error) {
	if err := actor.Require(domuser.TierUser); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// GetForEdit loads a product for the edit form.
func (s *Service) GetForEdit(ctx context.Context, actor domuser.Actor, id int64) (*dom.Product, error) {
	if err := s.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor domuser.Actor, in dom.Input) (*dom.Product, error) {
	if err := s.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	p, err := in.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		zap.Int64("product_id", created.ID),
		zap.Int64("actor_id", actor.UserID),
	)
	return created, nil
}

// Update overwrites name and price of an existing product in place. A
// missing id is reported before the input is validated.
func (s *Service) Update(ctx context.Context, actor domuser.Actor, id int64, in dom.Input) (*dom.Product, error) {
	if err := s.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	existed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	valid, err := in.Validate()
	if err != nil {
		return nil, err
	}
	existed.Name = valid.Name
	existed.Price = valid.Price

	updated, err := s.repo.Update(ctx, existed)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated",
		zap.Int64("product_id", updated.ID),
		zap.Int64("actor_id", actor.UserID),
	)
	return updated, nil
}

// Delete removes a product permanently. Deleting an id that does not exist
// succeeds without effect.
func (s *Service) Delete(ctx context.Context, actor domuser.Actor, id int64) error {
	if err := s.AuthorizeManage(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted",
		zap.Int64("product_id", id),
		zap.Int64("actor_id", actor.UserID),
	)
	return nil
}
