package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/platform/cache"
)

// aggregationWorkers bounds the per-entity squad fan-out.
const aggregationWorkers = 8

// StandingsService derives ranked tables for clubs, national teams and
// players. All ratings are computed at query time from rating history; squads
// resolve through the current-membership predicates on the player model.
type StandingsService struct {
	playerRepo player.Repository
	clubRepo   club.Repository
	teamRepo   nationalteam.Repository
	cache      *cache.Store
	now        func() time.Time
}

func NewStandingsService(
	playerRepo player.Repository,
	clubRepo club.Repository,
	teamRepo nationalteam.Repository,
	cacheStore *cache.Store,
	now func() time.Time,
) *StandingsService {
	if now == nil {
		now = time.Now
	}

	return &StandingsService{
		playerRepo: playerRepo,
		clubRepo:   clubRepo,
		teamRepo:   teamRepo,
		cache:      cacheStore,
		now:        now,
	}
}

type ListOptions struct {
	Page      int
	PerPage   int
	Search    string
	SortBy    string
	SortOrder string
}

type PlayerListOptions struct {
	ListOptions
	AgeGroup string
	Position string
}

type ClubStanding struct {
	ID        string
	Name      string
	Status    club.Status
	Rating    float64
	NetRating float64
}

type TeamStanding struct {
	ID        string
	Country   string
	Type      string
	Rating    float64
	NetRating float64
}

type PlayerRow struct {
	ID        string
	Name      string
	Age       int
	Position  string
	Country   string
	ClubID    string
	ClubName  string
	Rating    float64
	NetRating float64
}

type ClubStandingsPage struct {
	Items   []ClubStanding
	Total   int
	Page    int
	PerPage int
}

type TeamStandingsPage struct {
	Items   []TeamStanding
	Total   int
	Page    int
	PerPage int
}

type PlayerPage struct {
	Items   []PlayerRow
	Total   int
	Page    int
	PerPage int
}

// ListClubs returns the ranked club table. Clubs without a current squad list
// with both ratings at zero.
func (s *StandingsService) ListClubs(ctx context.Context, opts ListOptions) (ClubStandingsPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListClubs")
	defer span.End()

	opts, err := normalizeListOptions(opts, "name", []string{"name", "rating", "netRating"})
	if err != nil {
		return ClubStandingsPage{}, err
	}

	key := standingsCachePrefix + "clubs:" + optionsCacheKey(opts.Page, opts.PerPage, opts.Search, opts.SortBy, opts.SortOrder, "", "")
	value, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		return s.listClubs(ctx, opts)
	})
	if err != nil {
		return ClubStandingsPage{}, err
	}

	return value.(ClubStandingsPage), nil
}

func (s *StandingsService) listClubs(ctx context.Context, opts ListOptions) (ClubStandingsPage, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return ClubStandingsPage{}, fmt.Errorf("list clubs: %w", err)
	}

	filtered := clubs[:0:0]
	for _, c := range clubs {
		if containsFold(c.Name, opts.Search) {
			filtered = append(filtered, c)
		}
	}

	asOf := s.now()
	rows := make([]ClubStanding, len(filtered))
	workers := pool.New().WithMaxGoroutines(aggregationWorkers).WithErrors().WithContext(ctx)
	for i, c := range filtered {
		i, c := i, c
		workers.Go(func(ctx context.Context) error {
			squad, err := s.playerRepo.ListByCurrentClub(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("list squad for club %s: %w", c.ID, err)
			}

			row := ClubStanding{ID: c.ID, Name: c.Name, Status: c.Status}
			for _, p := range squad {
				row.Rating += p.TotalRating()
				row.NetRating += p.NetRating(asOf)
			}
			rows[i] = row
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return ClubStandingsPage{}, err
	}

	sortRows(rows, opts.SortBy, opts.SortOrder,
		func(r ClubStanding) string { return r.Name },
		func(r ClubStanding) float64 { return r.Rating },
		func(r ClubStanding) float64 { return r.NetRating },
		func(r ClubStanding) string { return r.ID },
	)

	total := len(rows)
	return ClubStandingsPage{
		Items:   paginate(rows, opts.Page, opts.PerPage),
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}, nil
}

// ListNationalTeams returns the ranked national-team table. The current squad
// of a side is every player with an active tenure for its (country, type).
func (s *StandingsService) ListNationalTeams(ctx context.Context, opts ListOptions) (TeamStandingsPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListNationalTeams")
	defer span.End()

	opts, err := normalizeListOptions(opts, "name", []string{"name", "rating", "netRating"})
	if err != nil {
		return TeamStandingsPage{}, err
	}

	key := standingsCachePrefix + "teams:" + optionsCacheKey(opts.Page, opts.PerPage, opts.Search, opts.SortBy, opts.SortOrder, "", "")
	value, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		return s.listNationalTeams(ctx, opts)
	})
	if err != nil {
		return TeamStandingsPage{}, err
	}

	return value.(TeamStandingsPage), nil
}

func (s *StandingsService) listNationalTeams(ctx context.Context, opts ListOptions) (TeamStandingsPage, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return TeamStandingsPage{}, fmt.Errorf("list national teams: %w", err)
	}

	filtered := teams[:0:0]
	for _, t := range teams {
		if containsFold(t.Country, opts.Search) || containsFold(t.DisplayName(), opts.Search) {
			filtered = append(filtered, t)
		}
	}

	asOf := s.now()
	rows := make([]TeamStanding, len(filtered))
	workers := pool.New().WithMaxGoroutines(aggregationWorkers).WithErrors().WithContext(ctx)
	for i, t := range filtered {
		i, t := i, t
		workers.Go(func(ctx context.Context) error {
			squad, err := s.playerRepo.ListByNationalTeam(ctx, t.Country, t.Type, asOf)
			if err != nil {
				return fmt.Errorf("list squad for national team %s: %w", t.ID, err)
			}

			row := TeamStanding{ID: t.ID, Country: t.Country, Type: t.Type}
			for _, p := range squad {
				row.Rating += p.TotalRating()
				row.NetRating += p.NetRating(asOf)
			}
			rows[i] = row
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return TeamStandingsPage{}, err
	}

	sortRows(rows, opts.SortBy, opts.SortOrder,
		func(r TeamStanding) string { return r.Country + " " + r.Type },
		func(r TeamStanding) float64 { return r.Rating },
		func(r TeamStanding) float64 { return r.NetRating },
		func(r TeamStanding) string { return r.ID },
	)

	total := len(rows)
	return TeamStandingsPage{
		Items:   paginate(rows, opts.Page, opts.PerPage),
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}, nil
}

// ListPlayers returns the ranked player table with optional age-group and
// position filters.
func (s *StandingsService) ListPlayers(ctx context.Context, opts PlayerListOptions) (PlayerPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListPlayers")
	defer span.End()

	normalized, err := normalizeListOptions(opts.ListOptions, "name", []string{"name", "age", "rating", "netRating"})
	if err != nil {
		return PlayerPage{}, err
	}
	opts.ListOptions = normalized

	if opts.AgeGroup != "" {
		if _, _, err := parseAgeGroup(opts.AgeGroup); err != nil {
			return PlayerPage{}, err
		}
	}

	key := standingsCachePrefix + "players:" + optionsCacheKey(opts.Page, opts.PerPage, opts.Search, opts.SortBy, opts.SortOrder, opts.AgeGroup, opts.Position)
	value, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		return s.listPlayers(ctx, opts)
	})
	if err != nil {
		return PlayerPage{}, err
	}

	return value.(PlayerPage), nil
}

func (s *StandingsService) listPlayers(ctx context.Context, opts PlayerListOptions) (PlayerPage, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return PlayerPage{}, fmt.Errorf("list players: %w", err)
	}

	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return PlayerPage{}, fmt.Errorf("list clubs: %w", err)
	}
	clubNameByID := make(map[string]string, len(clubs))
	for _, c := range clubs {
		clubNameByID[c.ID] = c.Name
	}

	asOf := s.now()
	rows := make([]PlayerRow, 0, len(players))
	for _, p := range players {
		if !containsFold(p.Name, opts.Search) {
			continue
		}
		if opts.Position != "" && !strings.EqualFold(p.Position, opts.Position) {
			continue
		}

		age := p.Age(asOf)
		if opts.AgeGroup != "" {
			minAge, maxAge, _ := parseAgeGroup(opts.AgeGroup)
			if age < minAge || age > maxAge {
				continue
			}
		}

		row := PlayerRow{
			ID:        p.ID,
			Name:      p.Name,
			Age:       age,
			Position:  p.Position,
			Country:   p.Country,
			Rating:    p.TotalRating(),
			NetRating: p.NetRating(asOf),
		}
		if p.CurrentClub != nil {
			row.ClubID = p.CurrentClub.ClubID
			row.ClubName = clubNameByID[p.CurrentClub.ClubID]
		}
		rows = append(rows, row)
	}

	asc := strings.EqualFold(opts.SortOrder, "asc")
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less, equal bool
		switch opts.SortBy {
		case "age":
			less, equal = a.Age < b.Age, a.Age == b.Age
		case "rating":
			less, equal = a.Rating < b.Rating, a.Rating == b.Rating
		case "netRating":
			less, equal = a.NetRating < b.NetRating, a.NetRating == b.NetRating
		default:
			nameA, nameB := strings.ToLower(a.Name), strings.ToLower(b.Name)
			less, equal = nameA < nameB, nameA == nameB
		}
		if equal {
			return a.ID < b.ID
		}
		if asc {
			return less
		}
		return !less
	})

	total := len(rows)
	return PlayerPage{
		Items:   paginate(rows, opts.Page, opts.PerPage),
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}, nil
}

// TeamRating sums the undecayed rating of a team's current squad. Fixture
// projections use it for both sides.
func (s *StandingsService) TeamRating(ctx context.Context, kind match.Kind, teamID string) (float64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.TeamRating")
	defer span.End()

	var squad []player.Player
	switch kind {
	case match.KindClub:
		_, found, err := s.clubRepo.GetByID(ctx, teamID)
		if err != nil {
			return 0, fmt.Errorf("get club: %w", err)
		}
		if !found {
			return 0, fmt.Errorf("%w: club=%s", ErrNotFound, teamID)
		}
		squad, err = s.playerRepo.ListByCurrentClub(ctx, teamID)
		if err != nil {
			return 0, fmt.Errorf("list squad for club %s: %w", teamID, err)
		}
	case match.KindNational:
		t, found, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return 0, fmt.Errorf("get national team: %w", err)
		}
		if !found {
			return 0, fmt.Errorf("%w: national team=%s", ErrNotFound, teamID)
		}
		squad, err = s.playerRepo.ListByNationalTeam(ctx, t.Country, t.Type, s.now())
		if err != nil {
			return 0, fmt.Errorf("list squad for national team %s: %w", teamID, err)
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, kind)
	}

	total := 0.0
	for _, p := range squad {
		total += p.TotalRating()
	}

	return total, nil
}

func (s *StandingsService) cached(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.cache == nil {
		return loader(ctx)
	}

	return s.cache.GetOrLoad(ctx, key, loader)
}

func normalizeListOptions(opts ListOptions, defaultSort string, allowedSorts []string) (ListOptions, error) {
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.PerPage == 0 {
		opts.PerPage = 10
	}
	if opts.Page < 0 || opts.PerPage < 0 {
		return ListOptions{}, fmt.Errorf("%w: page and perPage must be positive", ErrInvalidInput)
	}

	opts.Search = strings.TrimSpace(opts.Search)

	if opts.SortBy == "" {
		opts.SortBy = defaultSort
	}
	valid := false
	for _, allowed := range allowedSorts {
		if strings.EqualFold(opts.SortBy, allowed) {
			opts.SortBy = allowed
			valid = true
			break
		}
	}
	if !valid {
		return ListOptions{}, fmt.Errorf("%w: sortBy must be one of %s", ErrInvalidInput, strings.Join(allowedSorts, ", "))
	}

	switch strings.ToLower(strings.TrimSpace(opts.SortOrder)) {
	case "", "asc":
		opts.SortOrder = "asc"
	case "desc":
		opts.SortOrder = "desc"
	default:
		return ListOptions{}, fmt.Errorf("%w: sortOrder must be asc or desc", ErrInvalidInput)
	}

	return opts, nil
}

// parseAgeGroup understands "underN" and "overN" filters, e.g. under21.
func parseAgeGroup(v string) (int, int, error) {
	normalized := strings.ToLower(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(normalized, "under"):
		n, err := strconv.Atoi(strings.TrimPrefix(normalized, "under"))
		if err != nil || n <= 0 {
			return 0, 0, fmt.Errorf("%w: invalid age group %q", ErrInvalidInput, v)
		}
		return 0, n - 1, nil
	case strings.HasPrefix(normalized, "over"):
		n, err := strconv.Atoi(strings.TrimPrefix(normalized, "over"))
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("%w: invalid age group %q", ErrInvalidInput, v)
		}
		return n + 1, 200, nil
	default:
		return 0, 0, fmt.Errorf("%w: invalid age group %q", ErrInvalidInput, v)
	}
}

func sortRows[T any](rows []T, sortBy, sortOrder string, name func(T) string, ratingOf func(T) float64, netOf func(T) float64, id func(T) string) {
	asc := strings.EqualFold(sortOrder, "asc")
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less, equal bool
		switch sortBy {
		case "rating":
			less, equal = ratingOf(a) < ratingOf(b), ratingOf(a) == ratingOf(b)
		case "netRating":
			less, equal = netOf(a) < netOf(b), netOf(a) == netOf(b)
		default:
			na, nb := strings.ToLower(name(a)), strings.ToLower(name(b))
			less, equal = na < nb, na == nb
		}
		if equal {
			return id(a) < id(b)
		}
		if asc {
			return less
		}
		return !less
	})
}

func paginate[T any](rows []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(rows) {
		return []T{}
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}

	return append([]T(nil), rows[start:end]...)
}

func containsFold(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return true
	}

	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func optionsCacheKey(page, perPage int, search, sortBy, sortOrder, ageGroup, position string) string {
	return strings.Join([]string{
		strconv.Itoa(page),
		strconv.Itoa(perPage),
		strings.ToLower(search),
		sortBy,
		sortOrder,
		strings.ToLower(ageGroup),
		strings.ToLower(position),
	}, "|")
}
