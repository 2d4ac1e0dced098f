package player

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/rating"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRejectsDuplicateMatchEntries(t *testing.T) {
	t.Parallel()

	p := Player{
		Name:        "Dana Rivers",
		DateOfBirth: day(1999, time.April, 2),
		RatingHistory: []RatingEntry{
			{Date: day(2025, time.May, 1), NewRating: 1.2, Type: EntryTypeMatch, MatchID: "m1"},
			{Date: day(2025, time.May, 1), NewRating: -0.3, Type: EntryTypeMatch, MatchID: "m1"},
		},
	}

	if err := p.Validate(); !errors.Is(err, ErrDuplicateMatchRef) {
		t.Fatalf("validate error = %v, want ErrDuplicateMatchRef", err)
	}
}

func TestValidateRejectsTwoOpenTenuresForSameSide(t *testing.T) {
	t.Parallel()

	p := Player{
		Name:        "Dana Rivers",
		DateOfBirth: day(1999, time.April, 2),
		NationalTeams: []Tenure{
			{Country: "Norway", TeamType: "A", From: day(2022, time.January, 1)},
			{Country: "norway", TeamType: "a", From: day(2024, time.January, 1)},
		},
	}

	if err := p.Validate(); !errors.Is(err, ErrOverlappingTenures) {
		t.Fatalf("validate error = %v, want ErrOverlappingTenures", err)
	}
}

func TestNetRatingDecaysAndTotalDoesNot(t *testing.T) {
	t.Parallel()

	asOf := day(2025, time.June, 1)
	p := Player{
		Name:        "Dana Rivers",
		DateOfBirth: day(1999, time.April, 2),
		RatingHistory: []RatingEntry{
			{Date: asOf, NewRating: 2.0, Type: EntryTypeMatch, MatchID: "m1"},
			{Date: asOf.AddDate(0, 0, -rating.DecayWindowDays), NewRating: 5.0, Type: EntryTypeManual},
		},
	}

	if got := p.TotalRating(); got != 7.0 {
		t.Fatalf("total rating = %v, want 7.0", got)
	}
	if got := p.NetRating(asOf); math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("net rating = %v, want 2.0 (expired delta drops out)", got)
	}
}

func TestTenureActiveAt(t *testing.T) {
	t.Parallel()

	asOf := day(2025, time.June, 1)
	end := day(2025, time.June, 1)
	future := day(2026, time.January, 1)

	open := Tenure{Country: "Norway", TeamType: "A", From: day(2020, time.January, 1)}
	if !open.ActiveAt(asOf) {
		t.Fatal("open tenure should be active")
	}

	closedNow := Tenure{Country: "Norway", TeamType: "A", To: &end}
	if closedNow.ActiveAt(asOf) {
		t.Fatal("tenure ending exactly at asOf should be inactive")
	}

	closedLater := Tenure{Country: "Norway", TeamType: "A", To: &future}
	if !closedLater.ActiveAt(asOf) {
		t.Fatal("tenure ending after asOf should still be active")
	}

	notStarted := Tenure{Country: "Norway", TeamType: "A", From: future}
	if notStarted.ActiveAt(asOf) {
		t.Fatal("tenure starting after asOf should be inactive")
	}
}

func TestPlayedForClubAt(t *testing.T) {
	t.Parallel()

	oldEnd := day(2023, time.July, 1)
	p := Player{
		Name:        "Dana Rivers",
		DateOfBirth: day(1999, time.April, 2),
		CurrentClub: &ClubStint{ClubID: "club-new", From: day(2023, time.July, 1)},
		PreviousClubs: []ClubStint{
			{ClubID: "club-old", From: day(2020, time.January, 1), To: &oldEnd},
		},
	}

	if !p.PlayedForClubAt("club-old", day(2022, time.March, 1)) {
		t.Fatal("expected historical stint to cover 2022")
	}
	if p.PlayedForClubAt("club-old", day(2024, time.March, 1)) {
		t.Fatal("historical stint should not cover dates after its end")
	}
	if !p.PlayedForClubAt("club-new", day(2024, time.March, 1)) {
		t.Fatal("current stint should cover dates after its start")
	}
	if p.PlayedForClubAt("club-new", day(2022, time.March, 1)) {
		t.Fatal("current stint should not cover dates before its start")
	}
}
