package product

import "context"

// Repository is the persistence collaborator of the catalog. Delete of an
// unknown id is not an error.
type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, offset, limit int) ([]*Product, int64, error)
}
