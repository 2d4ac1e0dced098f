package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/platform/cache"
	idgen "github.com/footylytics/rating-engine/internal/platform/id"
	"github.com/footylytics/rating-engine/internal/platform/logging"
)

type PlayerService struct {
	playerRepo player.Repository
	clubRepo   club.Repository
	teamRepo   nationalteam.Repository
	cache      *cache.Store
	ids        idgen.Generator
	now        func() time.Time
	logger     *logging.Logger
}

func NewPlayerService(
	playerRepo player.Repository,
	clubRepo club.Repository,
	teamRepo nationalteam.Repository,
	cacheStore *cache.Store,
	ids idgen.Generator,
	now func() time.Time,
	logger *logging.Logger,
) *PlayerService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		playerRepo: playerRepo,
		clubRepo:   clubRepo,
		teamRepo:   teamRepo,
		cache:      cacheStore,
		ids:        ids,
		now:        now,
		logger:     logger,
	}
}

type TenureInput struct {
	Country  string
	TeamType string
	From     time.Time
	To       *time.Time
}

type ClubStintInput struct {
	ClubID string
	From   time.Time
	To     *time.Time
}

type RegisterPlayerInput struct {
	Name          string
	DateOfBirth   time.Time
	Position      string
	Country       string
	CurrentClub   *ClubStintInput
	PreviousClubs []ClubStintInput
	NationalTeams []TenureInput

	// InitialRating seeds the history with one manual entry dated now.
	InitialRating *float64
}

type UpdatePlayerInput struct {
	Name          *string
	Position      *string
	Country       *string
	CurrentClub   *ClubStintInput
	PreviousClubs []ClubStintInput
	NationalTeams []TenureInput

	// RatingAdjustment appends a manual rating entry dated at
	// AdjustmentDate (now when unset).
	RatingAdjustment *float64
	AdjustmentDate   *time.Time
}

// RegisterPlayer creates a player, rejecting case-insensitive (name, date of
// birth) duplicates.
func (s *PlayerService) RegisterPlayer(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RegisterPlayer")
	defer span.End()

	p := player.Player{
		Name:          strings.TrimSpace(input.Name),
		DateOfBirth:   input.DateOfBirth,
		Position:      strings.TrimSpace(input.Position),
		Country:       strings.TrimSpace(input.Country),
		CurrentClub:   stintFromInput(input.CurrentClub),
		PreviousClubs: stintsFromInput(input.PreviousClubs),
		NationalTeams: tenuresFromInput(input.NationalTeams),
	}

	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.requireClubsExist(ctx, p); err != nil {
		return player.Player{}, err
	}

	existing, found, err := s.playerRepo.FindByNameAndBirthDate(ctx, p.Name, p.DateOfBirth)
	if err != nil {
		return player.Player{}, fmt.Errorf("check duplicate player: %w", err)
	}
	if found {
		return player.Player{}, fmt.Errorf("%w: player %s born %s already exists", ErrConflict, existing.Name, existing.DateOfBirth.Format("2006-01-02"))
	}

	id, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	p.ID = id
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt

	if input.InitialRating != nil {
		p.RatingHistory = []player.RatingEntry{{
			Date:      s.now().UTC(),
			NewRating: *input.InitialRating,
			Type:      player.EntryTypeManual,
		}}
	}

	if err := s.playerRepo.Insert(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "player registered", "player_id", p.ID, "name", p.Name)
	return p, nil
}

// UpdatePlayer applies profile changes and an optional manual rating
// adjustment.
func (s *PlayerService) UpdatePlayer(ctx context.Context, playerID string, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdatePlayer")
	defer span.End()

	p, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !found {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Position != nil {
		p.Position = strings.TrimSpace(*input.Position)
	}
	if input.Country != nil {
		p.Country = strings.TrimSpace(*input.Country)
	}
	if input.CurrentClub != nil {
		p.CurrentClub = stintFromInput(input.CurrentClub)
	}
	if input.PreviousClubs != nil {
		p.PreviousClubs = stintsFromInput(input.PreviousClubs)
	}
	if input.NationalTeams != nil {
		p.NationalTeams = tenuresFromInput(input.NationalTeams)
	}

	if input.RatingAdjustment != nil {
		date := s.now().UTC()
		if input.AdjustmentDate != nil {
			date = input.AdjustmentDate.UTC()
		}
		p.RatingHistory = append(p.RatingHistory, player.RatingEntry{
			Date:      date,
			NewRating: *input.RatingAdjustment,
			Type:      player.EntryTypeManual,
		})
	}

	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.requireClubsExist(ctx, p); err != nil {
		return player.Player{}, err
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.playerRepo.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "player updated", "player_id", p.ID)
	return p, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	p, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !found {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return p, nil
}

// CheckDuplicate probes whether a (name, date of birth) pair is taken.
func (s *PlayerService) CheckDuplicate(ctx context.Context, name string, dateOfBirth time.Time) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.CheckDuplicate")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" || dateOfBirth.IsZero() {
		return false, fmt.Errorf("%w: name and dateOfBirth are required", ErrInvalidInput)
	}

	_, found, err := s.playerRepo.FindByNameAndBirthDate(ctx, name, dateOfBirth)
	if err != nil {
		return false, fmt.Errorf("check duplicate player: %w", err)
	}

	return found, nil
}

// ListClubSquad returns a club's current squad, or the squad as of a date
// when at is set (stint ranges decide membership).
func (s *PlayerService) ListClubSquad(ctx context.Context, clubID string, at *time.Time) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListClubSquad")
	defer span.End()

	_, found, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}

	if at == nil {
		squad, err := s.playerRepo.ListByCurrentClub(ctx, clubID)
		if err != nil {
			return nil, fmt.Errorf("list current squad: %w", err)
		}
		return squad, nil
	}

	squad, err := s.playerRepo.ListByClubAt(ctx, clubID, *at)
	if err != nil {
		return nil, fmt.Errorf("list squad as of date: %w", err)
	}

	return squad, nil
}

// ListNationalTeamSquad returns a national side's squad as of the given
// instant (now when unset).
func (s *PlayerService) ListNationalTeamSquad(ctx context.Context, teamID string, at *time.Time) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListNationalTeamSquad")
	defer span.End()

	t, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get national team: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: national team=%s", ErrNotFound, teamID)
	}

	asOf := s.now()
	if at != nil {
		asOf = *at
	}

	squad, err := s.playerRepo.ListByNationalTeam(ctx, t.Country, t.Type, asOf)
	if err != nil {
		return nil, fmt.Errorf("list national team squad: %w", err)
	}

	return squad, nil
}

func (s *PlayerService) requireClubsExist(ctx context.Context, p player.Player) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.requireClubsExist")
	defer span.End()

	check := func(clubID string) error {
		_, found, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return fmt.Errorf("get club: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
		}
		return nil
	}

	if p.CurrentClub != nil {
		if err := check(p.CurrentClub.ClubID); err != nil {
			return err
		}
	}
	for _, stint := range p.PreviousClubs {
		if err := check(stint.ClubID); err != nil {
			return err
		}
	}

	return nil
}

func (s *PlayerService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, standingsCachePrefix)
	}
}

func stintFromInput(in *ClubStintInput) *player.ClubStint {
	if in == nil {
		return nil
	}

	return &player.ClubStint{ClubID: strings.TrimSpace(in.ClubID), From: in.From, To: in.To}
}

func stintsFromInput(in []ClubStintInput) []player.ClubStint {
	if in == nil {
		return nil
	}

	out := make([]player.ClubStint, 0, len(in))
	for _, stint := range in {
		out = append(out, player.ClubStint{ClubID: strings.TrimSpace(stint.ClubID), From: stint.From, To: stint.To})
	}

	return out
}

func tenuresFromInput(in []TenureInput) []player.Tenure {
	if in == nil {
		return nil
	}

	out := make([]player.Tenure, 0, len(in))
	for _, t := range in {
		out = append(out, player.Tenure{
			Country:  strings.TrimSpace(t.Country),
			TeamType: strings.TrimSpace(t.TeamType),
			From:     t.From,
			To:       t.To,
		})
	}

	return out
}
