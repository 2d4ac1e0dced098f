package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/footylytics/rating-engine/internal/domain/player"
	qb "github.com/footylytics/rating-engine/internal/platform/querybuilder"
)

// PlayerRepository persists players with their club stints, national-team
// tenures and rating history across four tables. The entry tables carry an
// ON DELETE CASCADE back to players, so Delete paths never orphan history.
type PlayerRepository struct {
	db *sqlx.DB
}

var _ player.Repository = (*PlayerRepository)(nil)

var playerSelectColumns = []string{
	"id",
	"name",
	"date_of_birth",
	"position",
	"country",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("players").
		Columns("id", "name", "date_of_birth", "position", "country").
		Values(p.ID, p.Name, dateString(p.DateOfBirth), p.Position, p.Country).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	if err := insertPlayerChildren(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player insert tx: %w", err)
	}

	return nil
}

// Update rewrites the player row and replaces all child rows. The embedded
// collections are small, so a full replace is simpler than diffing.
func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("players").
		Set("name", p.Name).
		Set("date_of_birth", dateString(p.DateOfBirth)).
		Set("position", p.Position).
		Set("country", p.Country).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update player: %s not found", p.ID)
	}

	for _, table := range []string{"player_club_stints", "player_tenures", "rating_entries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE player_id = $1", p.ID); err != nil {
			return fmt.Errorf("clear %s for player %s: %w", table, p.ID, err)
		}
	}

	if err := insertPlayerChildren(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player update tx: %w", err)
	}

	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	players, err := r.selectPlayers(ctx, qb.Eq("id", id))
	if err != nil {
		return player.Player{}, false, err
	}
	if len(players) == 0 {
		return player.Player{}, false, nil
	}

	return players[0], true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []string) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	return r.selectPlayers(ctx, qb.In("id", stringSliceToAny(ids)))
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.selectPlayers(ctx)
}

func (r *PlayerRepository) FindByNameAndBirthDate(ctx context.Context, name string, dateOfBirth time.Time) (player.Player, bool, error) {
	players, err := r.selectPlayers(ctx,
		qb.Expr("LOWER(name) = LOWER(?)", name),
		qb.Expr("date_of_birth = ?::date", dateString(dateOfBirth)),
	)
	if err != nil {
		return player.Player{}, false, err
	}
	if len(players) == 0 {
		return player.Player{}, false, nil
	}

	return players[0], true, nil
}

func (r *PlayerRepository) ListByCurrentClub(ctx context.Context, clubID string) ([]player.Player, error) {
	return r.selectPlayers(ctx, qb.Expr(
		"id IN (SELECT player_id FROM player_club_stints WHERE club_id = ? AND is_current)",
		clubID,
	))
}

func (r *PlayerRepository) ListByClubAt(ctx context.Context, clubID string, at time.Time) ([]player.Player, error) {
	day := dateString(at)
	return r.selectPlayers(ctx, qb.Expr(
		"id IN (SELECT player_id FROM player_club_stints WHERE club_id = ? AND from_date <= ?::date AND (to_date IS NULL OR to_date > ?::date))",
		clubID, day, day,
	))
}

func (r *PlayerRepository) ListByNationalTeam(ctx context.Context, country, teamType string, asOf time.Time) ([]player.Player, error) {
	day := dateString(asOf)
	return r.selectPlayers(ctx, qb.Expr(
		"id IN (SELECT player_id FROM player_tenures WHERE LOWER(country) = LOWER(?) AND LOWER(team_type) = LOWER(?) AND from_date <= ?::date AND (to_date IS NULL OR to_date > ?::date))",
		country, teamType, day, day,
	))
}

func (r *PlayerRepository) ListIDsWithMatchEntry(ctx context.Context, matchID string) ([]string, error) {
	const query = `
SELECT player_id
FROM rating_entries
WHERE match_id = $1
ORDER BY player_id`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, matchID); err != nil {
		return nil, fmt.Errorf("list players with match entry: %w", err)
	}

	return ids, nil
}

func (r *PlayerRepository) AppendMatchEntries(ctx context.Context, matchID string, entries map[string]player.RatingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for append match entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	playerIDs := sortedEntryPlayerIDs(entries)
	if err := requirePlayers(ctx, tx, playerIDs); err != nil {
		return err
	}
	if err := insertMatchEntries(ctx, tx, matchID, playerIDs, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append match entries tx: %w", err)
	}

	return nil
}

func (r *PlayerRepository) ReplaceMatchEntries(ctx context.Context, matchID string, entries map[string]player.RatingEntry, removedPlayerIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for replace match entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	playerIDs := sortedEntryPlayerIDs(entries)
	if err := requirePlayers(ctx, tx, playerIDs); err != nil {
		return err
	}

	affected := append(append([]string(nil), playerIDs...), removedPlayerIDs...)
	if len(affected) > 0 {
		query, args, err := sqlx.In(
			"DELETE FROM rating_entries WHERE match_id = ? AND player_id IN (?)",
			matchID, affected,
		)
		if err != nil {
			return fmt.Errorf("bind delete match entries query: %w", err)
		}
		query = tx.Rebind(query)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete match entries: %w", err)
		}
	}

	if err := insertMatchEntries(ctx, tx, matchID, playerIDs, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace match entries tx: %w", err)
	}

	return nil
}

func (r *PlayerRepository) RemoveMatchEntries(ctx context.Context, matchID string) error {
	const query = `DELETE FROM rating_entries WHERE match_id = $1`
	if _, err := r.db.ExecContext(ctx, query, matchID); err != nil {
		return fmt.Errorf("remove match entries: %w", err)
	}

	return nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, where ...qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(where...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	return r.hydratePlayers(ctx, rows)
}

// hydratePlayers attaches stints, tenures and rating history to the base rows
// with one query per child table.
func (r *PlayerRepository) hydratePlayers(ctx context.Context, rows []playerTableModel) ([]player.Player, error) {
	if len(rows) == 0 {
		return []player.Player{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	stints, err := r.loadStints(ctx, ids)
	if err != nil {
		return nil, err
	}
	tenures, err := r.loadTenures(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries, err := r.loadEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		p := player.Player{
			ID:          row.ID,
			Name:        row.Name,
			DateOfBirth: row.DateOfBirth.UTC(),
			Position:    row.Position,
			Country:     row.Country,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		}
		for _, s := range stints[row.ID] {
			stint := player.ClubStint{
				ClubID: s.ClubID,
				From:   s.FromDate.UTC(),
				To:     nullTimeToPtr(s.ToDate),
			}
			if s.IsCurrent {
				current := stint
				p.CurrentClub = &current
				continue
			}
			p.PreviousClubs = append(p.PreviousClubs, stint)
		}
		for _, t := range tenures[row.ID] {
			p.NationalTeams = append(p.NationalTeams, player.Tenure{
				Country:  t.Country,
				TeamType: t.TeamType,
				From:     t.FromDate.UTC(),
				To:       nullTimeToPtr(t.ToDate),
			})
		}
		for _, e := range entries[row.ID] {
			p.RatingHistory = append(p.RatingHistory, player.RatingEntry{
				Date:      e.EntryDate.UTC(),
				NewRating: e.Delta,
				Type:      player.EntryType(e.EntryType),
				MatchID:   nullStringToString(e.MatchID),
			})
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) loadStints(ctx context.Context, playerIDs []string) (map[string][]clubStintTableModel, error) {
	query, args, err := qb.Select("player_id", "club_id", "is_current", "from_date", "to_date").
		From("player_club_stints").
		Where(qb.In("player_id", stringSliceToAny(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select club stints query: %w", err)
	}

	var rows []clubStintTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select club stints: %w", err)
	}

	out := make(map[string][]clubStintTableModel, len(playerIDs))
	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row)
	}

	return out, nil
}

func (r *PlayerRepository) loadTenures(ctx context.Context, playerIDs []string) (map[string][]tenureTableModel, error) {
	query, args, err := qb.Select("player_id", "country", "team_type", "from_date", "to_date").
		From("player_tenures").
		Where(qb.In("player_id", stringSliceToAny(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tenures query: %w", err)
	}

	var rows []tenureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tenures: %w", err)
	}

	out := make(map[string][]tenureTableModel, len(playerIDs))
	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row)
	}

	return out, nil
}

func (r *PlayerRepository) loadEntries(ctx context.Context, playerIDs []string) (map[string][]ratingEntryTableModel, error) {
	query, args, err := qb.Select("player_id", "entry_date", "delta", "entry_type", "match_id").
		From("rating_entries").
		Where(qb.In("player_id", stringSliceToAny(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rating entries query: %w", err)
	}

	var rows []ratingEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rating entries: %w", err)
	}

	out := make(map[string][]ratingEntryTableModel, len(playerIDs))
	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row)
	}

	return out, nil
}

func insertPlayerChildren(ctx context.Context, tx *sqlx.Tx, p player.Player) error {
	stints := qb.InsertInto("player_club_stints").
		Columns("player_id", "club_id", "is_current", "from_date", "to_date")
	stintCount := 0
	if p.CurrentClub != nil {
		stints.Values(p.ID, p.CurrentClub.ClubID, true, dateString(p.CurrentClub.From), ptrToNullTime(p.CurrentClub.To))
		stintCount++
	}
	for _, s := range p.PreviousClubs {
		stints.Values(p.ID, s.ClubID, false, dateString(s.From), ptrToNullTime(s.To))
		stintCount++
	}
	if stintCount > 0 {
		query, args, err := stints.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert club stints query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert club stints: %w", err)
		}
	}

	if len(p.NationalTeams) > 0 {
		tenures := qb.InsertInto("player_tenures").
			Columns("player_id", "country", "team_type", "from_date", "to_date")
		for _, t := range p.NationalTeams {
			tenures.Values(p.ID, t.Country, t.TeamType, dateString(t.From), ptrToNullTime(t.To))
		}
		query, args, err := tenures.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert tenures query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert tenures: %w", err)
		}
	}

	if len(p.RatingHistory) > 0 {
		history := qb.InsertInto("rating_entries").
			Columns("player_id", "entry_date", "delta", "entry_type", "match_id")
		for _, e := range p.RatingHistory {
			history.Values(p.ID, e.Date.UTC(), e.NewRating, string(e.Type), toNullString(e.MatchID))
		}
		query, args, err := history.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert rating entries query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert rating entries: %w", err)
		}
	}

	return nil
}

// requirePlayers fails the transaction when any listed player is missing so a
// batch write never lands partially.
func requirePlayers(ctx context.Context, tx *sqlx.Tx, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In("SELECT id FROM players WHERE id IN (?)", playerIDs)
	if err != nil {
		return fmt.Errorf("bind select players query: %w", err)
	}
	query = tx.Rebind(query)

	var found []string
	if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
		return fmt.Errorf("select players for entry write: %w", err)
	}
	if len(found) == len(playerIDs) {
		return nil
	}

	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range playerIDs {
		if _, ok := present[id]; !ok {
			return fmt.Errorf("player %s not found", id)
		}
	}

	return fmt.Errorf("players missing for entry write")
}

func insertMatchEntries(ctx context.Context, tx *sqlx.Tx, matchID string, playerIDs []string, entries map[string]player.RatingEntry) error {
	if len(playerIDs) == 0 {
		return nil
	}

	builder := qb.InsertInto("rating_entries").
		Columns("player_id", "entry_date", "delta", "entry_type", "match_id").
		Suffix("ON CONFLICT (player_id, match_id) WHERE match_id IS NOT NULL DO NOTHING")
	for _, id := range playerIDs {
		e := entries[id]
		builder.Values(id, e.Date.UTC(), e.NewRating, string(player.EntryTypeMatch), matchID)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match entries: %w", err)
	}

	return nil
}

func sortedEntryPlayerIDs(entries map[string]player.RatingEntry) []string {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
