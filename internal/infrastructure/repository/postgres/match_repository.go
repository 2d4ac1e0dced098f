package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/rating"
	qb "github.com/footylytics/rating-engine/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

var _ match.Repository = (*MatchRepository)(nil)

var matchSelectColumns = []string{
	"id",
	"kind",
	"match_date",
	"venue",
	"odds_home_win",
	"odds_draw",
	"odds_away_win",
	"home_team_id",
	"home_score",
	"away_team_id",
	"away_score",
	"home_change",
	"away_change",
	"created_at",
	"updated_at",
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Insert(ctx context.Context, m match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("matches").
		Columns(
			"id", "kind", "match_date", "venue",
			"odds_home_win", "odds_draw", "odds_away_win",
			"home_team_id", "home_score", "away_team_id", "away_score",
			"home_change", "away_change",
		).
		Values(
			m.ID, string(m.Kind), m.Date.UTC(), m.Venue,
			m.Odds.HomeWin, m.Odds.Draw, m.Odds.AwayWin,
			m.Home.TeamID, m.Home.Score, m.Away.TeamID, m.Away.Score,
			m.Outcome.HomeChange, m.Outcome.AwayChange,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	if err := insertAppearances(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match insert tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("matches").
		Set("kind", string(m.Kind)).
		Set("match_date", m.Date.UTC()).
		Set("venue", m.Venue).
		Set("odds_home_win", m.Odds.HomeWin).
		Set("odds_draw", m.Odds.Draw).
		Set("odds_away_win", m.Odds.AwayWin).
		Set("home_team_id", m.Home.TeamID).
		Set("home_score", m.Home.Score).
		Set("away_team_id", m.Away.TeamID).
		Set("away_score", m.Away.Score).
		Set("home_change", m.Outcome.HomeChange).
		Set("away_change", m.Outcome.AwayChange).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update match: %s not found", m.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM match_appearances WHERE match_id = $1", m.ID); err != nil {
		return fmt.Errorf("clear match appearances: %w", err)
	}
	if err := insertAppearances(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match update tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM matches WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	matches, err := r.hydrateMatches(ctx, []matchTableModel{row})
	if err != nil {
		return match.Match{}, false, err
	}

	return matches[0], true, nil
}

// List pages matches newest first. Search narrows by venue substring.
func (r *MatchRepository) List(ctx context.Context, filter match.ListFilter) ([]match.Match, int, error) {
	var (
		where     string
		whereArgs []any
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = " WHERE venue ILIKE $1"
		whereArgs = append(whereArgs, "%"+search+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM matches" + where
	if err := r.db.GetContext(ctx, &total, countQuery, whereArgs...); err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	if offset < 0 {
		return nil, total, nil
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM matches%s ORDER BY match_date DESC, id LIMIT $%d OFFSET $%d",
		strings.Join(matchSelectColumns, ", "), where, len(whereArgs)+1, len(whereArgs)+2,
	)
	pageArgs := append(append([]any(nil), whereArgs...), filter.PerPage, offset)

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, pageQuery, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("select matches: %w", err)
	}

	matches, err := r.hydrateMatches(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return matches, total, nil
}

func (r *MatchRepository) FindByTeamOnDay(ctx context.Context, kind match.Kind, teamID string, day time.Time) (match.Match, bool, error) {
	year, month, dayOfMonth := day.UTC().Date()
	dayStart := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := fmt.Sprintf(`
SELECT %s
FROM matches
WHERE kind = $1
  AND (home_team_id = $2 OR away_team_id = $2)
  AND match_date >= $3
  AND match_date < $4
LIMIT 1`, strings.Join(matchSelectColumns, ", "))

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, string(kind), teamID, dayStart, dayEnd); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("find match by team and day: %w", err)
	}

	matches, err := r.hydrateMatches(ctx, []matchTableModel{row})
	if err != nil {
		return match.Match{}, false, err
	}

	return matches[0], true, nil
}

func (r *MatchRepository) ListIDsOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	const query = `
SELECT id
FROM matches
WHERE match_date < $1
ORDER BY match_date`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, cutoff.UTC()); err != nil {
		return nil, fmt.Errorf("list matches older than cutoff: %w", err)
	}

	return ids, nil
}

func (r *MatchRepository) hydrateMatches(ctx context.Context, rows []matchTableModel) ([]match.Match, error) {
	if len(rows) == 0 {
		return []match.Match{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query, args, err := qb.Select("match_id", "side", "player_id", "starter").
		From("match_appearances").
		Where(qb.In("match_id", stringSliceToAny(ids))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select appearances query: %w", err)
	}

	var appearanceRows []appearanceTableModel
	if err := r.db.SelectContext(ctx, &appearanceRows, query, args...); err != nil {
		return nil, fmt.Errorf("select appearances: %w", err)
	}

	home := make(map[string][]match.Appearance, len(rows))
	away := make(map[string][]match.Appearance, len(rows))
	for _, a := range appearanceRows {
		appearance := match.Appearance{PlayerID: a.PlayerID, Starter: a.Starter}
		if a.Side == "home" {
			home[a.MatchID] = append(home[a.MatchID], appearance)
			continue
		}
		away[a.MatchID] = append(away[a.MatchID], appearance)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:    row.ID,
			Kind:  match.Kind(row.Kind),
			Date:  row.MatchDate.UTC(),
			Venue: row.Venue,
			Odds: rating.Odds{
				HomeWin: row.OddsHomeWin,
				Draw:    row.OddsDraw,
				AwayWin: row.OddsAwayWin,
			},
			Home: match.Side{TeamID: row.HomeTeamID, Score: row.HomeScore, Lineup: home[row.ID]},
			Away: match.Side{TeamID: row.AwayTeamID, Score: row.AwayScore, Lineup: away[row.ID]},
			Outcome: rating.Outcome{
				HomeChange: row.HomeChange,
				AwayChange: row.AwayChange,
			},
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return out, nil
}

func insertAppearances(ctx context.Context, tx *sqlx.Tx, m match.Match) error {
	if len(m.Home.Lineup) == 0 && len(m.Away.Lineup) == 0 {
		return nil
	}

	builder := qb.InsertInto("match_appearances").
		Columns("match_id", "side", "player_id", "starter")
	for _, a := range m.Home.Lineup {
		builder.Values(m.ID, "home", a.PlayerID, a.Starter)
	}
	for _, a := range m.Away.Lineup {
		builder.Values(m.ID, "away", a.PlayerID, a.Starter)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert appearances query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert appearances: %w", err)
	}

	return nil
}
