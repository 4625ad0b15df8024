package patient

import "context"

// Repository is the record store contract the service and bulk import
// depend on.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
	List(ctx context.Context, q QueryContext, limit, offset int) ([]*Patient, int, error)
	ListFiltered(ctx context.Context, q QueryContext) ([]*Patient, error)
	ListAll(ctx context.Context) ([]*Patient, error)
}
