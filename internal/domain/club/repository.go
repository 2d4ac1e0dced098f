package club

import "context"

type Repository interface {
	Insert(ctx context.Context, c Club) error
	Update(ctx context.Context, c Club) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Club, bool, error)

	// FindByName matches the club name case-insensitively.
	FindByName(ctx context.Context, name string) (Club, bool, error)

	List(ctx context.Context) ([]Club, error)
	ListActive(ctx context.Context) ([]Club, error)
}
