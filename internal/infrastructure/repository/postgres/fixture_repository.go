package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/footylytics/rating-engine/internal/domain/fixture"
	"github.com/footylytics/rating-engine/internal/domain/match"
	qb "github.com/footylytics/rating-engine/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

var _ fixture.Repository = (*FixtureRepository)(nil)

var fixtureSelectColumns = []string{
	"id",
	"kind",
	"fixture_date",
	"hour",
	"venue",
	"league",
	"home_team_id",
	"away_team_id",
	"created_at",
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) Insert(ctx context.Context, f fixture.Fixture) error {
	query, args, err := qb.InsertInto("fixtures").
		Columns("id", "kind", "fixture_date", "hour", "venue", "league", "home_team_id", "away_team_id").
		Values(f.ID, string(f.Kind), f.Date.UTC(), f.Hour, f.Venue, f.League, f.HomeTeamID, f.AwayTeamID).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert fixture query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture: %w", err)
	}

	return nil
}

func (r *FixtureRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM fixtures WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete fixture: %w", err)
	}

	return nil
}

func (r *FixtureRepository) GetByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}

	return fixtureFromRow(row), true, nil
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		OrderBy("fixture_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}

	return out, nil
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:         row.ID,
		Kind:       match.Kind(row.Kind),
		Date:       row.FixtureDate.UTC(),
		Hour:       row.Hour,
		Venue:      row.Venue,
		League:     row.League,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		CreatedAt:  row.CreatedAt,
	}
}
