package memory

import (
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
)

// Seed loads a small demo dataset for local development with the memory
// driver.
func Seed(store *Store) {
	store.mu.Lock()
	defer store.mu.Unlock()

	clubs := []club.Club{
		{ID: "club-riverside", Name: "Riverside FC", Status: club.StatusActive},
		{ID: "club-harbour", Name: "Harbour United", Status: club.StatusActive},
		{ID: "club-summit", Name: "Summit Town", Status: club.StatusInactive},
	}
	for _, c := range clubs {
		store.clubs[c.ID] = c
		store.clubOrder = append(store.clubOrder, c.ID)
	}

	teams := []nationalteam.Team{
		{ID: "nt-norway-a", Country: "Norway", Type: "A"},
		{ID: "nt-norway-u21", Country: "Norway", Type: "U-21"},
		{ID: "nt-denmark-a", Country: "Denmark", Type: "A"},
	}
	for _, t := range teams {
		store.teams[t.ID] = t
		store.teamOrder = append(store.teamOrder, t.ID)
	}

	joined := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	capped := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	players := []player.Player{
		{
			ID:          "player-ana-berg",
			Name:        "Ana Berg",
			DateOfBirth: time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC),
			Position:    "Forward",
			Country:     "Norway",
			CurrentClub: &player.ClubStint{ClubID: "club-riverside", From: joined},
			NationalTeams: []player.Tenure{
				{Country: "Norway", TeamType: "A", From: capped},
			},
			RatingHistory: []player.RatingEntry{
				{Date: joined, NewRating: 4.5, Type: player.EntryTypeManual},
			},
		},
		{
			ID:          "player-bo-holm",
			Name:        "Bo Holm",
			DateOfBirth: time.Date(1998, 11, 20, 0, 0, 0, 0, time.UTC),
			Position:    "Midfielder",
			Country:     "Denmark",
			CurrentClub: &player.ClubStint{ClubID: "club-harbour", From: joined},
			NationalTeams: []player.Tenure{
				{Country: "Denmark", TeamType: "A", From: capped},
			},
			RatingHistory: []player.RatingEntry{
				{Date: joined, NewRating: 3.0, Type: player.EntryTypeManual},
			},
		},
		{
			ID:          "player-cato-lund",
			Name:        "Cato Lund",
			DateOfBirth: time.Date(2005, 6, 9, 0, 0, 0, 0, time.UTC),
			Position:    "Defender",
			Country:     "Norway",
			CurrentClub: &player.ClubStint{ClubID: "club-riverside", From: joined},
			NationalTeams: []player.Tenure{
				{Country: "Norway", TeamType: "U-21", From: capped},
			},
		},
	}
	for _, p := range players {
		store.players[p.ID] = p
		store.playerOrder = append(store.playerOrder, p.ID)
	}
}
