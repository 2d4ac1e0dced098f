package nationalteam

import "context"

type Repository interface {
	Insert(ctx context.Context, t Team) error
	GetByID(ctx context.Context, id string) (Team, bool, error)
	FindByCountryAndType(ctx context.Context, country, teamType string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
}
