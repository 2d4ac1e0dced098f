package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/platform/cache"
)

var standingsNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func standingsPlayer(id, name string, clubID string, entries ...player.RatingEntry) player.Player {
	p := player.Player{
		ID:            id,
		Name:          name,
		DateOfBirth:   time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC),
		Position:      "Midfielder",
		Country:       "Norway",
		RatingHistory: entries,
	}
	if clubID != "" {
		from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		p.CurrentClub = &player.ClubStint{ClubID: clubID, From: from}
	}
	return p
}

func manualEntry(delta float64, date time.Time) player.RatingEntry {
	return player.RatingEntry{Date: date, NewRating: delta, Type: player.EntryTypeManual}
}

func TestStandingsServiceListClubsAggregatesSquads(t *testing.T) {
	t.Parallel()

	recent := standingsNow.AddDate(0, 0, -10)
	playerRepo := newStubPlayerRepo(
		standingsPlayer("p1", "Ana", "c1", manualEntry(4, recent), manualEntry(2, recent)),
		standingsPlayer("p2", "Bo", "c1", manualEntry(1, recent)),
		standingsPlayer("p3", "Cy", "c2", manualEntry(10, recent)),
	)
	clubRepo := newStubClubRepo(
		club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive},
		club.Club{ID: "c2", Name: "Harbour United", Status: club.StatusActive},
		club.Club{ID: "c3", Name: "Summit Town", Status: club.StatusInactive},
	)
	svc := NewStandingsService(playerRepo, clubRepo, newStubTeamRepo(), nil, fixedNow(standingsNow))

	page, err := svc.ListClubs(context.Background(), ListOptions{SortBy: "rating", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("ListClubs() error = %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("total = %d items = %d, want 3 and 3", page.Total, len(page.Items))
	}

	if page.Items[0].ID != "c2" || page.Items[0].Rating != 10 {
		t.Fatalf("top club = %+v, want c2 at 10", page.Items[0])
	}
	if page.Items[1].ID != "c1" || page.Items[1].Rating != 7 {
		t.Fatalf("second club = %+v, want c1 at 7", page.Items[1])
	}

	// A club without a squad still lists, at zero.
	empty := page.Items[2]
	if empty.ID != "c3" || empty.Rating != 0 || empty.NetRating != 0 {
		t.Fatalf("empty club row = %+v, want c3 at 0", empty)
	}
}

func TestStandingsServiceNetRatingDecays(t *testing.T) {
	t.Parallel()

	old := standingsNow.AddDate(0, 0, -1461) // outside the window entirely
	recent := standingsNow.AddDate(0, 0, -10)
	playerRepo := newStubPlayerRepo(
		standingsPlayer("p1", "Ana", "c1", manualEntry(5, old), manualEntry(2, recent)),
	)
	clubRepo := newStubClubRepo(club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive})
	svc := NewStandingsService(playerRepo, clubRepo, newStubTeamRepo(), nil, fixedNow(standingsNow))

	page, err := svc.ListClubs(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListClubs() error = %v", err)
	}
	row := page.Items[0]

	if row.Rating != 7 {
		t.Fatalf("total rating = %v, want 7", row.Rating)
	}
	wantNet := 2 * float64(1461-10) / 1461
	if diff := row.NetRating - wantNet; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("net rating = %v, want %v", row.NetRating, wantNet)
	}
}

func TestStandingsServiceListNationalTeamsUsesActiveTenures(t *testing.T) {
	t.Parallel()

	recent := standingsNow.AddDate(0, 0, -5)
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ended := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	current := standingsPlayer("p1", "Ana", "", manualEntry(6, recent))
	current.NationalTeams = []player.Tenure{{Country: "Norway", TeamType: "A", From: from}}

	former := standingsPlayer("p2", "Bo", "", manualEntry(9, recent))
	former.NationalTeams = []player.Tenure{{Country: "Norway", TeamType: "A", From: from, To: &ended}}

	playerRepo := newStubPlayerRepo(current, former)
	teamRepo := newStubTeamRepo(nationalteam.Team{ID: "nt1", Country: "Norway", Type: "A"})
	svc := NewStandingsService(playerRepo, newStubClubRepo(), teamRepo, nil, fixedNow(standingsNow))

	page, err := svc.ListNationalTeams(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListNationalTeams() error = %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}

	// Only the open-ended tenure counts toward the current squad.
	if page.Items[0].Rating != 6 {
		t.Fatalf("team rating = %v, want 6 (former player excluded)", page.Items[0].Rating)
	}
}

func TestStandingsServiceListPlayersFilters(t *testing.T) {
	t.Parallel()

	recent := standingsNow.AddDate(0, 0, -5)
	young := standingsPlayer("p1", "Ana", "c1", manualEntry(3, recent))
	young.DateOfBirth = time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC) // 18

	veteran := standingsPlayer("p2", "Bo", "c1", manualEntry(8, recent))
	veteran.DateOfBirth = time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC) // 32
	veteran.Position = "Defender"

	playerRepo := newStubPlayerRepo(young, veteran)
	clubRepo := newStubClubRepo(club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive})
	svc := NewStandingsService(playerRepo, clubRepo, newStubTeamRepo(), nil, fixedNow(standingsNow))

	under21, err := svc.ListPlayers(context.Background(), PlayerListOptions{AgeGroup: "under21"})
	if err != nil {
		t.Fatalf("ListPlayers(under21) error = %v", err)
	}
	if len(under21.Items) != 1 || under21.Items[0].ID != "p1" {
		t.Fatalf("under21 items = %+v, want only p1", under21.Items)
	}
	if under21.Items[0].Age != 18 {
		t.Fatalf("age = %d, want 18", under21.Items[0].Age)
	}
	if under21.Items[0].ClubName != "Riverside FC" {
		t.Fatalf("club name = %q", under21.Items[0].ClubName)
	}

	defenders, err := svc.ListPlayers(context.Background(), PlayerListOptions{Position: "defender"})
	if err != nil {
		t.Fatalf("ListPlayers(position) error = %v", err)
	}
	if len(defenders.Items) != 1 || defenders.Items[0].ID != "p2" {
		t.Fatalf("position filter items = %+v, want only p2", defenders.Items)
	}

	if _, err := svc.ListPlayers(context.Background(), PlayerListOptions{AgeGroup: "teens"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad age group error = %v, want ErrInvalidInput", err)
	}
}

func TestStandingsServiceRejectsUnknownSort(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(newStubPlayerRepo(), newStubClubRepo(), newStubTeamRepo(), nil, fixedNow(standingsNow))

	if _, err := svc.ListClubs(context.Background(), ListOptions{SortBy: "founded"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown sort error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.ListClubs(context.Background(), ListOptions{SortOrder: "sideways"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown order error = %v, want ErrInvalidInput", err)
	}
}

func TestStandingsServiceCachesUntilInvalidated(t *testing.T) {
	t.Parallel()

	recent := standingsNow.AddDate(0, 0, -5)
	playerRepo := newStubPlayerRepo(standingsPlayer("p1", "Ana", "c1", manualEntry(3, recent)))
	clubRepo := newStubClubRepo(club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive})
	store := cache.NewStore(time.Minute)
	svc := NewStandingsService(playerRepo, clubRepo, newStubTeamRepo(), store, fixedNow(standingsNow))

	ctx := context.Background()
	first, err := svc.ListClubs(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListClubs() error = %v", err)
	}
	if first.Items[0].Rating != 3 {
		t.Fatalf("rating = %v, want 3", first.Items[0].Rating)
	}

	// A repo write without invalidation is not visible yet.
	p := playerRepo.players["p1"]
	p.RatingHistory = append(p.RatingHistory, manualEntry(4, recent))
	playerRepo.players["p1"] = p

	cachedPage, err := svc.ListClubs(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListClubs() error = %v", err)
	}
	if cachedPage.Items[0].Rating != 3 {
		t.Fatalf("cached rating = %v, want stale 3", cachedPage.Items[0].Rating)
	}

	store.DeletePrefix(ctx, standingsCachePrefix)
	freshPage, err := svc.ListClubs(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListClubs() error = %v", err)
	}
	if freshPage.Items[0].Rating != 7 {
		t.Fatalf("fresh rating = %v, want 7", freshPage.Items[0].Rating)
	}
}

func TestStandingsServiceTeamRating(t *testing.T) {
	t.Parallel()

	recent := standingsNow.AddDate(0, 0, -5)
	playerRepo := newStubPlayerRepo(
		standingsPlayer("p1", "Ana", "c1", manualEntry(3, recent)),
		standingsPlayer("p2", "Bo", "c1", manualEntry(4, recent)),
	)
	clubRepo := newStubClubRepo(club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive})
	svc := NewStandingsService(playerRepo, clubRepo, newStubTeamRepo(), nil, fixedNow(standingsNow))

	total, err := svc.TeamRating(context.Background(), match.KindClub, "c1")
	if err != nil {
		t.Fatalf("TeamRating() error = %v", err)
	}
	if total != 7 {
		t.Fatalf("team rating = %v, want 7", total)
	}

	if _, err := svc.TeamRating(context.Background(), match.KindClub, "c-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown club error = %v, want ErrNotFound", err)
	}
}
