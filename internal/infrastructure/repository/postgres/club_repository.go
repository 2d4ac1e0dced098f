package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/footylytics/rating-engine/internal/domain/club"
	qb "github.com/footylytics/rating-engine/internal/platform/querybuilder"
)

type ClubRepository struct {
	db *sqlx.DB
}

var _ club.Repository = (*ClubRepository)(nil)

var clubSelectColumns = []string{
	"id",
	"name",
	"status",
	"created_at",
	"updated_at",
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) Insert(ctx context.Context, c club.Club) error {
	query, args, err := qb.InsertInto("clubs").
		Columns("id", "name", "status").
		Values(c.ID, c.Name, string(c.Status)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert club query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert club: %w", err)
	}

	return nil
}

func (r *ClubRepository) Update(ctx context.Context, c club.Club) error {
	query, args, err := qb.Update("clubs").
		Set("name", c.Name).
		Set("status", string(c.Status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", c.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update club query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update club: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update club: %s not found", c.ID)
	}

	return nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM clubs WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete club: %w", err)
	}

	return nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (club.Club, bool, error) {
	query, args, err := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build select club query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}

	return clubFromRow(row), true, nil
}

func (r *ClubRepository) FindByName(ctx context.Context, name string) (club.Club, bool, error) {
	query, args, err := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.Expr("LOWER(name) = LOWER(?)", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build find club by name query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("find club by name: %w", err)
	}

	return clubFromRow(row), true, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	return r.selectClubs(ctx)
}

func (r *ClubRepository) ListActive(ctx context.Context) ([]club.Club, error) {
	return r.selectClubs(ctx, qb.Eq("status", string(club.StatusActive)))
}

func (r *ClubRepository) selectClubs(ctx context.Context, where ...qb.Condition) ([]club.Club, error) {
	query, args, err := qb.Select(clubSelectColumns...).From("clubs").
		Where(where...).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, clubFromRow(row))
	}

	return out, nil
}

func clubFromRow(row clubTableModel) club.Club {
	return club.Club{
		ID:     row.ID,
		Name:   row.Name,
		Status: club.Status(row.Status),
	}
}
