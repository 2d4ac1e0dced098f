package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/domain/rating"
	idgen "github.com/footylytics/rating-engine/internal/platform/id"
	"github.com/footylytics/rating-engine/internal/platform/logging"
)

type MatchService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	clubRepo   club.Repository
	teamRepo   nationalteam.Repository
	ledger     *LedgerService
	ids        idgen.Generator
	now        func() time.Time
	logger     *logging.Logger
}

func NewMatchService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	clubRepo club.Repository,
	teamRepo nationalteam.Repository,
	ledger *LedgerService,
	ids idgen.Generator,
	now func() time.Time,
	logger *logging.Logger,
) *MatchService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		clubRepo:   clubRepo,
		teamRepo:   teamRepo,
		ledger:     ledger,
		ids:        ids,
		now:        now,
		logger:     logger,
	}
}

type LineupEntryInput struct {
	PlayerID string
	Starter  bool
}

type MatchSideInput struct {
	TeamID string
	Score  int
	Lineup []LineupEntryInput
}

type MatchInput struct {
	Kind  string
	Date  time.Time
	Venue string
	Odds  rating.Odds
	Home  MatchSideInput
	Away  MatchSideInput
}

// MatchView is a match with team references resolved to display names.
type MatchView struct {
	Match        match.Match
	HomeTeamName string
	AwayTeamName string
}

type MatchPage struct {
	Items   []MatchView
	Total   int
	Page    int
	PerPage int
}

// Availability answers a double-booking probe for a team on a day.
type Availability struct {
	HasMatch     bool
	TeamName     string
	OpponentName string
	Venue        string
	Date         time.Time
}

// CreateMatch validates the submission, evaluates the outcome, persists the
// match and records starter rating entries. Validation runs to completion
// before the first write so a rejected match leaves no trace.
func (s *MatchService) CreateMatch(ctx context.Context, input MatchInput) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer span.End()

	m, err := s.buildMatch(ctx, input)
	if err != nil {
		return MatchView{}, err
	}

	if err := s.checkDoubleBooking(ctx, m, ""); err != nil {
		return MatchView{}, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return MatchView{}, fmt.Errorf("generate match id: %w", err)
	}
	m.ID = id
	m.CreatedAt = s.now().UTC()
	m.UpdatedAt = m.CreatedAt

	if err := s.matchRepo.Insert(ctx, m); err != nil {
		return MatchView{}, fmt.Errorf("insert match: %w", err)
	}
	if err := s.ledger.RecordMatch(ctx, m); err != nil {
		return MatchView{}, err
	}

	s.logger.InfoContext(ctx, "match created", "match_id", m.ID, "kind", string(m.Kind), "venue", m.Venue)
	return s.toView(ctx, m)
}

// UpdateMatch revalidates the full submission, re-evaluates the outcome and
// reconciles the ledger for the new starter lists.
func (s *MatchService) UpdateMatch(ctx context.Context, matchID string, input MatchInput) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateMatch")
	defer span.End()

	existing, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchView{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchView{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	m, err := s.buildMatch(ctx, input)
	if err != nil {
		return MatchView{}, err
	}

	if err := s.checkDoubleBooking(ctx, m, matchID); err != nil {
		return MatchView{}, err
	}

	m.ID = existing.ID
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.Update(ctx, m); err != nil {
		return MatchView{}, fmt.Errorf("update match: %w", err)
	}
	if err := s.ledger.ReviseMatch(ctx, m); err != nil {
		return MatchView{}, err
	}

	s.logger.InfoContext(ctx, "match updated", "match_id", m.ID)
	return s.toView(ctx, m)
}

// DeleteMatch removes the match and all rating entries referencing it.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.DeleteMatch")
	defer span.End()

	_, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return s.ledger.RemoveMatch(ctx, matchID)
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchView{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchView{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return s.toView(ctx, m)
}

// ListMatches pages matches newest-first, optionally filtered by a venue
// substring.
func (s *MatchService) ListMatches(ctx context.Context, filter match.ListFilter) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	items, total, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return MatchPage{}, fmt.Errorf("list matches: %w", err)
	}

	views := make([]MatchView, 0, len(items))
	for _, m := range items {
		v, err := s.toView(ctx, m)
		if err != nil {
			return MatchPage{}, err
		}
		views = append(views, v)
	}

	return MatchPage{
		Items:   views,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

// CheckTeamAvailability reports whether a team already plays on the given
// day, with the existing match details when it does.
func (s *MatchService) CheckTeamAvailability(ctx context.Context, kindRaw, teamID string, day time.Time) (Availability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CheckTeamAvailability")
	defer span.End()

	kind, err := match.ParseKind(kindRaw)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(teamID) == "" {
		return Availability{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	teamName, err := s.teamDisplayName(ctx, kind, teamID)
	if err != nil {
		return Availability{}, err
	}

	existing, found, err := s.matchRepo.FindByTeamOnDay(ctx, kind, teamID, day)
	if err != nil {
		return Availability{}, fmt.Errorf("find match by team and day: %w", err)
	}
	if !found {
		return Availability{TeamName: teamName}, nil
	}

	opponentID := existing.Away.TeamID
	if existing.Away.TeamID == teamID {
		opponentID = existing.Home.TeamID
	}
	opponentName, err := s.teamDisplayName(ctx, kind, opponentID)
	if err != nil {
		return Availability{}, err
	}

	return Availability{
		HasMatch:     true,
		TeamName:     teamName,
		OpponentName: opponentName,
		Venue:        existing.Venue,
		Date:         existing.Date,
	}, nil
}

// buildMatch turns the raw input into a validated, outcome-evaluated match.
func (s *MatchService) buildMatch(ctx context.Context, input MatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.buildMatch")
	defer span.End()

	kind, err := match.ParseKind(input.Kind)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m := match.Match{
		Kind:  kind,
		Date:  input.Date,
		Venue: strings.TrimSpace(input.Venue),
		Odds:  input.Odds,
		Home:  sideFromInput(input.Home),
		Away:  sideFromInput(input.Away),
	}

	if err := m.Validate(s.now()); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Both teams must resolve for the declared kind.
	if _, err := s.teamDisplayName(ctx, kind, m.Home.TeamID); err != nil {
		return match.Match{}, err
	}
	if _, err := s.teamDisplayName(ctx, kind, m.Away.TeamID); err != nil {
		return match.Match{}, err
	}

	if err := s.requirePlayersExist(ctx, m); err != nil {
		return match.Match{}, err
	}

	outcome, err := rating.EvaluateOutcome(m.Odds, m.Home.Score, m.Away.Score)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	m.Outcome = outcome

	return m, nil
}

// checkDoubleBooking rejects a match when either team already plays the same
// day. excludeMatchID skips the match being updated.
func (s *MatchService) checkDoubleBooking(ctx context.Context, m match.Match, excludeMatchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.checkDoubleBooking")
	defer span.End()

	for _, teamID := range []string{m.Home.TeamID, m.Away.TeamID} {
		existing, found, err := s.matchRepo.FindByTeamOnDay(ctx, m.Kind, teamID, m.Date)
		if err != nil {
			return fmt.Errorf("find match by team and day: %w", err)
		}
		if !found || existing.ID == excludeMatchID {
			continue
		}

		name, nameErr := s.teamDisplayName(ctx, m.Kind, teamID)
		if nameErr != nil {
			name = teamID
		}
		return fmt.Errorf("%w: %s already has a match on %s", ErrConflict, name, m.Date.UTC().Format("2006-01-02"))
	}

	return nil
}

func (s *MatchService) requirePlayersExist(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.requirePlayersExist")
	defer span.End()

	ids := append(m.Home.PlayerIDs(), m.Away.PlayerIDs()...)
	unique := make(map[string]struct{}, len(ids))
	lookup := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := unique[id]; dup {
			continue
		}
		unique[id] = struct{}{}
		lookup = append(lookup, id)
	}

	players, err := s.playerRepo.GetByIDs(ctx, lookup)
	if err != nil {
		return fmt.Errorf("get lineup players: %w", err)
	}
	if len(players) == len(lookup) {
		return nil
	}

	found := make(map[string]struct{}, len(players))
	for _, p := range players {
		found[p.ID] = struct{}{}
	}
	for _, id := range lookup {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
	}

	return nil
}

func (s *MatchService) toView(ctx context.Context, m match.Match) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.toView")
	defer span.End()

	homeName, err := s.teamDisplayName(ctx, m.Kind, m.Home.TeamID)
	if err != nil {
		return MatchView{}, err
	}
	awayName, err := s.teamDisplayName(ctx, m.Kind, m.Away.TeamID)
	if err != nil {
		return MatchView{}, err
	}

	return MatchView{Match: m, HomeTeamName: homeName, AwayTeamName: awayName}, nil
}

func (s *MatchService) teamDisplayName(ctx context.Context, kind match.Kind, teamID string) (string, error) {
	switch kind {
	case match.KindClub:
		c, found, err := s.clubRepo.GetByID(ctx, teamID)
		if err != nil {
			return "", fmt.Errorf("get club: %w", err)
		}
		if !found {
			return "", fmt.Errorf("%w: club=%s", ErrNotFound, teamID)
		}
		return c.Name, nil
	case match.KindNational:
		t, found, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return "", fmt.Errorf("get national team: %w", err)
		}
		if !found {
			return "", fmt.Errorf("%w: national team=%s", ErrNotFound, teamID)
		}
		return t.DisplayName(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, kind)
	}
}

func sideFromInput(in MatchSideInput) match.Side {
	lineup := make([]match.Appearance, 0, len(in.Lineup))
	for _, entry := range in.Lineup {
		lineup = append(lineup, match.Appearance{PlayerID: entry.PlayerID, Starter: entry.Starter})
	}

	return match.Side{
		TeamID: strings.TrimSpace(in.TeamID),
		Score:  in.Score,
		Lineup: lineup,
	}
}
