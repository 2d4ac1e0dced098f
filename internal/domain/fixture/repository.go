package fixture

import "context"

// ListFilter pages fixture listings. Search is applied by the service layer
// against resolved team names, so the repository only pages.
type ListFilter struct {
	Page    int
	PerPage int
}

type Repository interface {
	Insert(ctx context.Context, f Fixture) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Fixture, bool, error)

	// List returns all fixtures ordered by date ascending.
	List(ctx context.Context) ([]Fixture, error)
}
