package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/platform/cache"
	idgen "github.com/footylytics/rating-engine/internal/platform/id"
	"github.com/footylytics/rating-engine/internal/platform/logging"
)

type ClubService struct {
	clubRepo club.Repository
	cache    *cache.Store
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewClubService(clubRepo club.Repository, cacheStore *cache.Store, ids idgen.Generator, logger *logging.Logger) *ClubService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ClubService{
		clubRepo: clubRepo,
		cache:    cacheStore,
		ids:      ids,
		logger:   logger,
	}
}

type ClubInput struct {
	Name   string
	Status string
}

// CreateClub rejects case-insensitive name duplicates. Status defaults to
// Active.
func (s *ClubService) CreateClub(ctx context.Context, input ClubInput) (club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.CreateClub")
	defer span.End()

	c := club.Club{
		Name:   strings.TrimSpace(input.Name),
		Status: club.StatusActive,
	}
	if input.Status != "" {
		status, err := parseClubStatus(input.Status)
		if err != nil {
			return club.Club{}, err
		}
		c.Status = status
	}

	if err := c.Validate(); err != nil {
		return club.Club{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, found, err := s.clubRepo.FindByName(ctx, c.Name)
	if err != nil {
		return club.Club{}, fmt.Errorf("check duplicate club: %w", err)
	}
	if found {
		return club.Club{}, fmt.Errorf("%w: club %s already exists", ErrConflict, existing.Name)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return club.Club{}, fmt.Errorf("generate club id: %w", err)
	}
	c.ID = id

	if err := s.clubRepo.Insert(ctx, c); err != nil {
		return club.Club{}, fmt.Errorf("insert club: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "club created", "club_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *ClubService) GetClub(ctx context.Context, clubID string) (club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.GetClub")
	defer span.End()

	c, found, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !found {
		return club.Club{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}

	return c, nil
}

func (s *ClubService) UpdateClub(ctx context.Context, clubID string, input ClubInput) (club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.UpdateClub")
	defer span.End()

	c, found, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !found {
		return club.Club{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}

	if name := strings.TrimSpace(input.Name); name != "" && !strings.EqualFold(name, c.Name) {
		existing, taken, err := s.clubRepo.FindByName(ctx, name)
		if err != nil {
			return club.Club{}, fmt.Errorf("check duplicate club: %w", err)
		}
		if taken && existing.ID != c.ID {
			return club.Club{}, fmt.Errorf("%w: club %s already exists", ErrConflict, existing.Name)
		}
		c.Name = name
	}
	if input.Status != "" {
		status, err := parseClubStatus(input.Status)
		if err != nil {
			return club.Club{}, err
		}
		c.Status = status
	}

	if err := s.clubRepo.Update(ctx, c); err != nil {
		return club.Club{}, fmt.Errorf("update club: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "club updated", "club_id", c.ID)
	return c, nil
}

func (s *ClubService) DeleteClub(ctx context.Context, clubID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.DeleteClub")
	defer span.End()

	_, found, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("get club: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}

	if err := s.clubRepo.Delete(ctx, clubID); err != nil {
		return fmt.Errorf("delete club: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "club deleted", "club_id", clubID)
	return nil
}

// ListActiveClubs returns active clubs sorted by name, for pickers.
func (s *ClubService) ListActiveClubs(ctx context.Context) ([]club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.ListActiveClubs")
	defer span.End()

	clubs, err := s.clubRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active clubs: %w", err)
	}

	sort.SliceStable(clubs, func(i, j int) bool {
		return strings.ToLower(clubs[i].Name) < strings.ToLower(clubs[j].Name)
	})

	return clubs, nil
}

func (s *ClubService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, standingsCachePrefix)
	}
}

func parseClubStatus(v string) (club.Status, error) {
	switch {
	case strings.EqualFold(v, string(club.StatusActive)):
		return club.StatusActive, nil
	case strings.EqualFold(v, string(club.StatusInactive)):
		return club.StatusInactive, nil
	default:
		return "", fmt.Errorf("%w: status must be Active or Inactive", ErrInvalidInput)
	}
}
