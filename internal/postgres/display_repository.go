package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wwicak/digital-signage-sub001/internal/domain"
	"github.com/wwicak/digital-signage-sub001/internal/metrics"
)

// displayColumns must match the Scan order in scanDisplay.
const displayColumns = `id, name, location, layout, created_at, updated_at`

// DisplayRepo implements domain.DisplayRepository backed by PostgreSQL.
type DisplayRepo struct {
	pool *pgxpool.Pool
}

// NewDisplayRepo creates a DisplayRepo from the shared connection pool.
func NewDisplayRepo(pool *pgxpool.Pool) *DisplayRepo {
	return &DisplayRepo{pool: pool}
}

func scanDisplay(row pgx.Row) (*domain.Display, error) {
	var d domain.Display
	err := row.Scan(&d.ID, &d.Name, &d.Location, &d.Layout, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DisplayRepo) Create(ctx context.Context, display *domain.Display) error {
	query := `INSERT INTO displays (id, name, location, layout)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, display.ID, display.Name, display.Location, display.Layout).
		Scan(&display.CreatedAt, &display.UpdatedAt)
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("display").Inc()
		return fmt.Errorf("failed to create display: %w", err)
	}
	return nil
}

func (r *DisplayRepo) GetByID(ctx context.Context, id string) (*domain.Display, error) {
	query := `SELECT ` + displayColumns + ` FROM displays WHERE id = $1`

	display, err := scanDisplay(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDisplayNotFound
	}
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("display").Inc()
		return nil, fmt.Errorf("failed to get display: %w", err)
	}
	return display, nil
}

func (r *DisplayRepo) List(ctx context.Context) ([]domain.Display, error) {
	query := `SELECT ` + displayColumns + ` FROM displays ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("display").Inc()
		return nil, fmt.Errorf("failed to list displays: %w", err)
	}
	defer rows.Close()

	var displays []domain.Display
	for rows.Next() {
		var d domain.Display
		if err := rows.Scan(&d.ID, &d.Name, &d.Location, &d.Layout, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan display: %w", err)
		}
		displays = append(displays, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate displays: %w", err)
	}
	return displays, nil
}

func (r *DisplayRepo) Update(ctx context.Context, display *domain.Display) error {
	query := `UPDATE displays
	          SET name = $2, location = $3, layout = $4, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, display.ID, display.Name, display.Location, display.Layout).
		Scan(&display.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDisplayNotFound
	}
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("display").Inc()
		return fmt.Errorf("failed to update display: %w", err)
	}
	return nil
}

func (r *DisplayRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM displays WHERE id = $1`, id)
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("display").Inc()
		return fmt.Errorf("failed to delete display: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDisplayNotFound
	}
	return nil
}
