package player

import (
	"context"
	"time"
)

// Repository persists players and their embedded rating history.
//
// AppendMatchEntries and ReplaceMatchEntries are the only mutation paths for
// match-type entries and both must be atomic: either every listed player is
// updated or none is. ReplaceMatchEntries additionally removes the match entry
// from every player in removedPlayerIDs inside the same transaction.
type Repository interface {
	Insert(ctx context.Context, p Player) error
	Update(ctx context.Context, p Player) error
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]Player, error)
	List(ctx context.Context) ([]Player, error)

	// FindByNameAndBirthDate matches the name case-insensitively and the
	// birth date at day precision.
	FindByNameAndBirthDate(ctx context.Context, name string, dateOfBirth time.Time) (Player, bool, error)

	ListByCurrentClub(ctx context.Context, clubID string) ([]Player, error)
	ListByClubAt(ctx context.Context, clubID string, at time.Time) ([]Player, error)
	ListByNationalTeam(ctx context.Context, country, teamType string, asOf time.Time) ([]Player, error)

	// ListIDsWithMatchEntry returns the players currently holding a
	// rating entry for the match.
	ListIDsWithMatchEntry(ctx context.Context, matchID string) ([]string, error)

	AppendMatchEntries(ctx context.Context, matchID string, entries map[string]RatingEntry) error
	ReplaceMatchEntries(ctx context.Context, matchID string, entries map[string]RatingEntry, removedPlayerIDs []string) error
	RemoveMatchEntries(ctx context.Context, matchID string) error
}
