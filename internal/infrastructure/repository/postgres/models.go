package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	DateOfBirth time.Time `db:"date_of_birth"`
	Position    string    `db:"position"`
	Country     string    `db:"country"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type clubStintTableModel struct {
	PlayerID  string       `db:"player_id"`
	ClubID    string       `db:"club_id"`
	IsCurrent bool         `db:"is_current"`
	FromDate  time.Time    `db:"from_date"`
	ToDate    sql.NullTime `db:"to_date"`
}

type tenureTableModel struct {
	PlayerID string       `db:"player_id"`
	Country  string       `db:"country"`
	TeamType string       `db:"team_type"`
	FromDate time.Time    `db:"from_date"`
	ToDate   sql.NullTime `db:"to_date"`
}

type ratingEntryTableModel struct {
	PlayerID  string         `db:"player_id"`
	EntryDate time.Time      `db:"entry_date"`
	Delta     float64        `db:"delta"`
	EntryType string         `db:"entry_type"`
	MatchID   sql.NullString `db:"match_id"`
}

type clubTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type nationalTeamTableModel struct {
	ID        string    `db:"id"`
	Country   string    `db:"country"`
	TeamType  string    `db:"team_type"`
	CreatedAt time.Time `db:"created_at"`
}

type matchTableModel struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	MatchDate   time.Time `db:"match_date"`
	Venue       string    `db:"venue"`
	OddsHomeWin float64   `db:"odds_home_win"`
	OddsDraw    float64   `db:"odds_draw"`
	OddsAwayWin float64   `db:"odds_away_win"`
	HomeTeamID  string    `db:"home_team_id"`
	HomeScore   int       `db:"home_score"`
	AwayTeamID  string    `db:"away_team_id"`
	AwayScore   int       `db:"away_score"`
	HomeChange  float64   `db:"home_change"`
	AwayChange  float64   `db:"away_change"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type appearanceTableModel struct {
	MatchID  string `db:"match_id"`
	Side     string `db:"side"`
	PlayerID string `db:"player_id"`
	Starter  bool   `db:"starter"`
}

type fixtureTableModel struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	FixtureDate time.Time `db:"fixture_date"`
	Hour        string    `db:"hour"`
	Venue       string    `db:"venue"`
	League      string    `db:"league"`
	HomeTeamID  string    `db:"home_team_id"`
	AwayTeamID  string    `db:"away_team_id"`
	CreatedAt   time.Time `db:"created_at"`
}
