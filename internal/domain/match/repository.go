package match

import (
	"context"
	"time"
)

// ListFilter narrows and pages match listings. Search matches the venue as a
// case-insensitive substring.
type ListFilter struct {
	Page    int
	PerPage int
	Search  string
}

type Repository interface {
	Insert(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Match, bool, error)

	// List returns the filtered page newest-first plus the total filtered
	// count.
	List(ctx context.Context, filter ListFilter) ([]Match, int, error)

	// FindByTeamOnDay returns any match of the given team kind played by
	// the team on the same UTC calendar day.
	FindByTeamOnDay(ctx context.Context, kind Kind, teamID string, day time.Time) (Match, bool, error)

	ListIDsOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}
