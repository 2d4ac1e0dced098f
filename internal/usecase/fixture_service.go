package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/fixture"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	idgen "github.com/footylytics/rating-engine/internal/platform/id"
	"github.com/footylytics/rating-engine/internal/platform/logging"
)

type FixtureService struct {
	fixtureRepo fixture.Repository
	clubRepo    club.Repository
	teamRepo    nationalteam.Repository
	standings   *StandingsService
	ids         idgen.Generator
	logger      *logging.Logger
}

func NewFixtureService(
	fixtureRepo fixture.Repository,
	clubRepo club.Repository,
	teamRepo nationalteam.Repository,
	standings *StandingsService,
	ids idgen.Generator,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FixtureService{
		fixtureRepo: fixtureRepo,
		clubRepo:    clubRepo,
		teamRepo:    teamRepo,
		standings:   standings,
		ids:         ids,
		logger:      logger,
	}
}

type FixtureInput struct {
	Kind       string
	Date       time.Time
	Hour       string
	Venue      string
	League     string
	HomeTeamID string
	AwayTeamID string
}

// FixtureView is a fixture with resolved team names and the derived rating
// difference (home minus away, current squads).
type FixtureView struct {
	Fixture      fixture.Fixture
	HomeTeamName string
	AwayTeamName string
	RatingDiff   float64
}

type FixturePage struct {
	Items   []FixtureView
	Total   int
	Page    int
	PerPage int
}

type FixtureListOptions struct {
	Page    int
	PerPage int
	Search  string
}

// AddFixture validates team references for the declared kind and stores the
// pairing. No rating data is stored with a fixture.
func (s *FixtureService) AddFixture(ctx context.Context, input FixtureInput) (FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.AddFixture")
	defer span.End()

	kind, err := match.ParseKind(input.Kind)
	if err != nil {
		return FixtureView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	f := fixture.Fixture{
		Kind:       kind,
		Date:       input.Date,
		Hour:       strings.TrimSpace(input.Hour),
		Venue:      strings.TrimSpace(input.Venue),
		League:     strings.TrimSpace(input.League),
		HomeTeamID: strings.TrimSpace(input.HomeTeamID),
		AwayTeamID: strings.TrimSpace(input.AwayTeamID),
	}
	if err := f.Validate(); err != nil {
		return FixtureView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	homeName, err := s.teamDisplayName(ctx, kind, f.HomeTeamID)
	if err != nil {
		return FixtureView{}, err
	}
	awayName, err := s.teamDisplayName(ctx, kind, f.AwayTeamID)
	if err != nil {
		return FixtureView{}, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return FixtureView{}, fmt.Errorf("generate fixture id: %w", err)
	}
	f.ID = id
	f.CreatedAt = time.Now().UTC()

	if err := s.fixtureRepo.Insert(ctx, f); err != nil {
		return FixtureView{}, fmt.Errorf("insert fixture: %w", err)
	}

	diff, err := s.EstimateRatingDiff(ctx, f)
	if err != nil {
		return FixtureView{}, err
	}

	s.logger.InfoContext(ctx, "fixture added", "fixture_id", f.ID, "home", homeName, "away", awayName)
	return FixtureView{Fixture: f, HomeTeamName: homeName, AwayTeamName: awayName, RatingDiff: diff}, nil
}

func (s *FixtureService) DeleteFixture(ctx context.Context, fixtureID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.DeleteFixture")
	defer span.End()

	_, found, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("get fixture: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}

	if err := s.fixtureRepo.Delete(ctx, fixtureID); err != nil {
		return fmt.Errorf("delete fixture: %w", err)
	}

	s.logger.InfoContext(ctx, "fixture deleted", "fixture_id", fixtureID)
	return nil
}

// ListFixtures pages upcoming fixtures with a per-row derived rating
// difference. Search matches either resolved team name.
func (s *FixtureService) ListFixtures(ctx context.Context, opts FixtureListOptions) (FixturePage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListFixtures")
	defer span.End()

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 10
	}

	fixtures, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return FixturePage{}, fmt.Errorf("list fixtures: %w", err)
	}

	views := make([]FixtureView, 0, len(fixtures))
	for _, f := range fixtures {
		homeName, err := s.teamDisplayName(ctx, f.Kind, f.HomeTeamID)
		if err != nil {
			return FixturePage{}, err
		}
		awayName, err := s.teamDisplayName(ctx, f.Kind, f.AwayTeamID)
		if err != nil {
			return FixturePage{}, err
		}

		if !containsFold(homeName, opts.Search) && !containsFold(awayName, opts.Search) {
			continue
		}

		diff, err := s.EstimateRatingDiff(ctx, f)
		if err != nil {
			return FixturePage{}, err
		}

		views = append(views, FixtureView{
			Fixture:      f,
			HomeTeamName: homeName,
			AwayTeamName: awayName,
			RatingDiff:   diff,
		})
	}

	total := len(views)
	return FixturePage{
		Items:   paginate(views, opts.Page, opts.PerPage),
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}, nil
}

// EstimateRatingDiff projects home rating minus away rating over current
// squads. The value is recomputed on every call and never persisted.
func (s *FixtureService) EstimateRatingDiff(ctx context.Context, f fixture.Fixture) (float64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.EstimateRatingDiff")
	defer span.End()

	home, err := s.standings.TeamRating(ctx, f.Kind, f.HomeTeamID)
	if err != nil {
		return 0, err
	}
	away, err := s.standings.TeamRating(ctx, f.Kind, f.AwayTeamID)
	if err != nil {
		return 0, err
	}

	return home - away, nil
}

func (s *FixtureService) teamDisplayName(ctx context.Context, kind match.Kind, teamID string) (string, error) {
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
