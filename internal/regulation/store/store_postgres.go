package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"lexscreen/internal/regulation/models"
	"lexscreen/pkg/platform/sentinel"
	txcontext "lexscreen/pkg/platform/tx"
)

// PostgresStore queries the regulations table. Schema assumed:
//
//	regulations(id text pk, title text, family text, geo_extent text,
//	            in_force bool, duty_creating bool, sectors text[],
//	            regions text[], min_employees int, max_employees int,
//	            min_turnover bigint, max_turnover bigint)
//
// with a partial index on duty_creating records; queries scoped to them
// report the optimization flag.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed corpus store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) querier(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// FindRegulations runs the count and sample queries for the given params.
func (s *PostgresStore) FindRegulations(ctx context.Context, params models.QueryParams) (*models.QueryResult, error) {
	where, args := buildWhere(params)
	q := s.querier(ctx)

	result := &models.QueryResult{OptimizationApplied: params.DutyCreating}

	countQuery := "SELECT COUNT(*) FROM regulations" + where
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&result.Count); err != nil {
		return nil, fmt.Errorf("count regulations: %w: %w", sentinel.ErrUnavailable, err)
	}

	if result.Count == 0 {
		return result, nil
	}

	limit := params.SampleLimit
	if limit <= 0 {
		limit = 50
	}
	sampleQuery := fmt.Sprintf(
		"SELECT id, title, family FROM regulations%s ORDER BY id LIMIT %d", where, limit)

	rows, err := q.QueryContext(ctx, sampleQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("sample regulations: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.Ref
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Family); err != nil {
			return nil, fmt.Errorf("scan regulation ref: %w", err)
		}
		result.Sample = append(result.Sample, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regulation refs: %w", err)
	}

	return result, nil
}

// buildWhere assembles the WHERE clause for the layered query filters.
func buildWhere(params models.QueryParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.InForceOnly {
		conds = append(conds, "in_force")
	}
	if params.DutyCreating {
		conds = append(conds, "duty_creating")
	}
	if len(params.Families) > 0 {
		conds = append(conds, "family = ANY("+arg(pq.Array(params.Families))+")")
	}
	if len(params.GeoExtents) > 0 {
		conds = append(conds, "geo_extent = ANY("+arg(pq.Array(params.GeoExtents))+")")
	}
	if params.Sector != "" {
		conds = append(conds, "(cardinality(sectors) = 0 OR "+arg(params.Sector)+" = ANY(sectors))")
	}
	if params.Employees > 0 {
		n := arg(params.Employees)
		conds = append(conds, "(min_employees = 0 OR min_employees <= "+n+")")
		conds = append(conds, "(max_employees = 0 OR max_employees >= "+n+")")
	}
	if params.Turnover > 0 {
		n := arg(params.Turnover)
		conds = append(conds, "(min_turnover = 0 OR min_turnover <= "+n+")")
		conds = append(conds, "(max_turnover = 0 OR max_turnover >= "+n+")")
	}
	if len(params.Regions) > 0 {
		conds = append(conds, "(cardinality(regions) = 0 OR regions && "+arg(pq.Array(params.Regions))+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
