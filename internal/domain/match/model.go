package match

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/rating"
)

var (
	ErrInvalidKind   = errors.New("invalid match kind")
	ErrSameTeam      = errors.New("a team cannot play against itself")
	ErrMissingVenue  = errors.New("match venue is required")
	ErrFutureDate    = errors.New("match date cannot be in the future")
	ErrMissingLineup = errors.New("both lineups are required")
)

// Kind separates club matches from national-team matches. Team references on
// a match resolve against the club table or the national-team table depending
// on the kind.
type Kind string

const (
	KindClub     Kind = "ClubTeam"
	KindNational Kind = "NationalTeam"
)

func ParseKind(v string) (Kind, error) {
	switch {
	case strings.EqualFold(v, string(KindClub)):
		return KindClub, nil
	case strings.EqualFold(v, string(KindNational)):
		return KindNational, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, v)
	}
}

// Appearance is one player on a match sheet. Only starters earn rating
// entries.
type Appearance struct {
	PlayerID string
	Starter  bool
}

type Side struct {
	TeamID string
	Score  int
	Lineup []Appearance
}

// StarterIDs returns the deduplicated starter list of the side.
func (s Side) StarterIDs() []string {
	seen := make(map[string]struct{}, len(s.Lineup))
	out := make([]string, 0, len(s.Lineup))
	for _, a := range s.Lineup {
		if !a.Starter {
			continue
		}
		if _, dup := seen[a.PlayerID]; dup {
			continue
		}
		seen[a.PlayerID] = struct{}{}
		out = append(out, a.PlayerID)
	}

	return out
}

func (s Side) PlayerIDs() []string {
	out := make([]string, 0, len(s.Lineup))
	for _, a := range s.Lineup {
		out = append(out, a.PlayerID)
	}

	return out
}

type Match struct {
	ID        string
	Kind      Kind
	Date      time.Time
	Venue     string
	Odds      rating.Odds
	Home      Side
	Away      Side
	Outcome   rating.Outcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the structural invariants. now anchors the future-date
// check.
func (m Match) Validate(now time.Time) error {
	if _, err := ParseKind(string(m.Kind)); err != nil {
		return err
	}
	if m.Home.TeamID == m.Away.TeamID {
		return fmt.Errorf("%w: team=%s", ErrSameTeam, m.Home.TeamID)
	}
	if strings.TrimSpace(m.Venue) == "" {
		return ErrMissingVenue
	}
	if m.Date.After(now) {
		return fmt.Errorf("%w: date=%s", ErrFutureDate, m.Date.Format("2006-01-02"))
	}
	if m.Home.Score < 0 || m.Away.Score < 0 {
		return fmt.Errorf("%w: scores must be non-negative", rating.ErrInvalidScore)
	}
	if len(m.Home.Lineup) == 0 || len(m.Away.Lineup) == 0 {
		return ErrMissingLineup
	}

	return m.Odds.Validate()
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
