package player

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/rating"
)

var (
	ErrMissingName        = errors.New("player name is required")
	ErrMissingBirthDate   = errors.New("player date of birth is required")
	ErrDuplicateMatchRef  = errors.New("player already holds a rating entry for this match")
	ErrOverlappingTenures = errors.New("player has more than one open national-team tenure for the same side")
)

// EntryType distinguishes match-driven rating entries from manual adjustments.
type EntryType string

const (
	EntryTypeMatch  EntryType = "match"
	EntryTypeManual EntryType = "manual"
)

// RatingEntry is one rating delta in a player's history. NewRating is the raw
// delta; the decayed value is always derived via rating.NetContribution and
// never stored.
type RatingEntry struct {
	Date      time.Time
	NewRating float64
	Type      EntryType
	MatchID   string
}

// ClubStint is a period of club affiliation. The current stint has To == nil.
type ClubStint struct {
	ClubID string
	From   time.Time
	To     *time.Time
}

// Tenure is a national-team call-up period for a (country, team type) side.
type Tenure struct {
	Country  string
	TeamType string
	From     time.Time
	To       *time.Time
}

// ActiveAt reports whether the tenure covers the given instant. Open-ended
// tenures stay active from their start; closed ones end at To.
func (t Tenure) ActiveAt(asOf time.Time) bool {
	if !t.From.IsZero() && t.From.After(asOf) {
		return false
	}

	return t.To == nil || t.To.After(asOf)
}

type Player struct {
	ID            string
	Name          string
	DateOfBirth   time.Time
	Position      string
	Country       string
	CurrentClub   *ClubStint
	PreviousClubs []ClubStint
	NationalTeams []Tenure
	RatingHistory []RatingEntry
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.DateOfBirth.IsZero() {
		return ErrMissingBirthDate
	}

	open := make(map[string]int)
	for _, t := range p.NationalTeams {
		if t.To != nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Country)) + "|" + strings.ToLower(strings.TrimSpace(t.TeamType))
		open[key]++
		if open[key] > 1 {
			return fmt.Errorf("%w: %s %s", ErrOverlappingTenures, t.Country, t.TeamType)
		}
	}

	seen := make(map[string]struct{}, len(p.RatingHistory))
	for _, e := range p.RatingHistory {
		if e.Type != EntryTypeMatch || e.MatchID == "" {
			continue
		}
		if _, dup := seen[e.MatchID]; dup {
			return fmt.Errorf("%w: match=%s", ErrDuplicateMatchRef, e.MatchID)
		}
		seen[e.MatchID] = struct{}{}
	}

	return nil
}

// Age is the player's age in whole calendar years.
func (p Player) Age(asOf time.Time) int {
	return rating.Age(p.DateOfBirth, asOf)
}

// TotalRating is the undecayed sum of all history deltas.
func (p Player) TotalRating() float64 {
	total := 0.0
	for _, e := range p.RatingHistory {
		total += e.NewRating
	}

	return total
}

// NetRating is the time-decayed sum of all history deltas as of the given
// instant.
func (p Player) NetRating(asOf time.Time) float64 {
	total := 0.0
	for _, e := range p.RatingHistory {
		total += rating.NetContribution(e.NewRating, e.Date, asOf)
	}

	return total
}

// PlaysForClub reports current-squad membership for a club.
func (p Player) PlaysForClub(clubID string) bool {
	return p.CurrentClub != nil && p.CurrentClub.ClubID == clubID
}

// PlayedForClubAt reports whether any stint, current or previous, covered the
// given date.
func (p Player) PlayedForClubAt(clubID string, at time.Time) bool {
	if p.CurrentClub != nil && p.CurrentClub.ClubID == clubID && !p.CurrentClub.From.After(at) {
		return true
	}
	for _, s := range p.PreviousClubs {
		if s.ClubID != clubID || s.From.After(at) {
			continue
		}
		if s.To == nil || s.To.After(at) {
			return true
		}
	}

	return false
}

// PlaysForNationalTeam reports current-squad membership for a national side.
func (p Player) PlaysForNationalTeam(country, teamType string, asOf time.Time) bool {
	for _, t := range p.NationalTeams {
		if !strings.EqualFold(t.Country, country) || !strings.EqualFold(t.TeamType, teamType) {
			continue
		}
		if t.ActiveAt(asOf) {
			return true
		}
	}

	return false
}

// MatchEntryIDs lists the match ids the player currently holds entries for.
func (p Player) MatchEntryIDs() []string {
	out := make([]string, 0, len(p.RatingHistory))
	for _, e := range p.RatingHistory {
		if e.Type == EntryTypeMatch && e.MatchID != "" {
			out = append(out, e.MatchID)
		}
	}

	return out
}
