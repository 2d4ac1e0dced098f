package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	qb "github.com/footylytics/rating-engine/internal/platform/querybuilder"
)

type NationalTeamRepository struct {
	db *sqlx.DB
}

var _ nationalteam.Repository = (*NationalTeamRepository)(nil)

var nationalTeamSelectColumns = []string{
	"id",
	"country",
	"team_type",
	"created_at",
}

func NewNationalTeamRepository(db *sqlx.DB) *NationalTeamRepository {
	return &NationalTeamRepository{db: db}
}

func (r *NationalTeamRepository) Insert(ctx context.Context, t nationalteam.Team) error {
	query, args, err := qb.InsertInto("national_teams").
		Columns("id", "country", "team_type").
		Values(t.ID, t.Country, t.Type).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert national team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert national team: %w", err)
	}

	return nil
}

func (r *NationalTeamRepository) GetByID(ctx context.Context, id string) (nationalteam.Team, bool, error) {
	query, args, err := qb.Select(nationalTeamSelectColumns...).From("national_teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nationalteam.Team{}, false, fmt.Errorf("build select national team query: %w", err)
	}

	var row nationalTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nationalteam.Team{}, false, nil
		}
		return nationalteam.Team{}, false, fmt.Errorf("get national team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *NationalTeamRepository) FindByCountryAndType(ctx context.Context, country, teamType string) (nationalteam.Team, bool, error) {
	query, args, err := qb.Select(nationalTeamSelectColumns...).From("national_teams").
		Where(qb.Expr("LOWER(country) = LOWER(?) AND LOWER(team_type) = LOWER(?)", country, teamType)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nationalteam.Team{}, false, fmt.Errorf("build find national team query: %w", err)
	}

	var row nationalTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nationalteam.Team{}, false, nil
		}
		return nationalteam.Team{}, false, fmt.Errorf("find national team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *NationalTeamRepository) List(ctx context.Context) ([]nationalteam.Team, error) {
	query, args, err := qb.Select(nationalTeamSelectColumns...).From("national_teams").
		OrderBy("country", "team_type").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select national teams query: %w", err)
	}

	var rows []nationalTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select national teams: %w", err)
	}

	out := make([]nationalteam.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

func teamFromRow(row nationalTeamTableModel) nationalteam.Team {
	return nationalteam.Team{
		ID:      row.ID,
		Country: row.Country,
		Type:    row.TeamType,
	}
}
