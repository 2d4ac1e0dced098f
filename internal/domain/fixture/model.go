package fixture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/match"
)

var (
	ErrSameTeam    = errors.New("a fixture cannot pair a team with itself")
	ErrMissingTeam = errors.New("both fixture teams are required")
)

// Fixture is a scheduled, not yet played pairing. The rating difference shown
// next to a fixture is always derived from current squads, never stored.
type Fixture struct {
	ID         string
	Kind       match.Kind
	Date       time.Time
	Hour       string
	Venue      string
	League     string
	HomeTeamID string
	AwayTeamID string
	CreatedAt  time.Time
}

func (f Fixture) Validate() error {
	if _, err := match.ParseKind(string(f.Kind)); err != nil {
		return err
	}
	if strings.TrimSpace(f.HomeTeamID) == "" || strings.TrimSpace(f.AwayTeamID) == "" {
		return ErrMissingTeam
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("%w: team=%s", ErrSameTeam, f.HomeTeamID)
	}

	return nil
}
