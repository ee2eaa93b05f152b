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

// widgetColumns must match the Scan order in scanWidget.
const widgetColumns = `id, display_id, kind, data, position, created_at, updated_at`

// WidgetRepo implements domain.WidgetRepository backed by PostgreSQL.
type WidgetRepo struct {
	pool *pgxpool.Pool
}

// NewWidgetRepo creates a WidgetRepo from the shared connection pool.
func NewWidgetRepo(pool *pgxpool.Pool) *WidgetRepo {
	return &WidgetRepo{pool: pool}
}

func scanWidget(row pgx.Row) (*domain.Widget, error) {
	var w domain.Widget
	err := row.Scan(&w.ID, &w.DisplayID, &w.Kind, &w.Data, &w.Position, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WidgetRepo) Create(ctx context.Context, widget *domain.Widget) error {
	query := `INSERT INTO widgets (id, display_id, kind, data, position)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, widget.ID, widget.DisplayID, widget.Kind, widget.Data, widget.Position).
		Scan(&widget.CreatedAt, &widget.UpdatedAt)
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("widget").Inc()
		return fmt.Errorf("failed to create widget: %w", err)
	}
	return nil
}

func (r *WidgetRepo) GetByID(ctx context.Context, id string) (*domain.Widget, error) {
	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE id = $1`

	widget, err := scanWidget(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWidgetNotFound
	}
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("widget").Inc()
		return nil, fmt.Errorf("failed to get widget: %w", err)
	}
	return widget, nil
}

func (r *WidgetRepo) ListByDisplay(ctx context.Context, displayID string) ([]domain.Widget, error) {
	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE display_id = $1 ORDER BY position`

	rows, err := r.pool.Query(ctx, query, displayID)
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("widget").Inc()
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}
	defer rows.Close()

	var widgets []domain.Widget
	for rows.Next() {
		var w domain.Widget
		if err := rows.Scan(&w.ID, &w.DisplayID, &w.Kind, &w.Data, &w.Position, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan widget: %w", err)
		}
		widgets = append(widgets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate widgets: %w", err)
	}
	return widgets, nil
}

func (r *WidgetRepo) Update(ctx context.Context, widget *domain.Widget) error {
	query := `UPDATE widgets
	          SET kind = $2, data = $3, position = $4, updated_at = now()
	          WHERE id = $1
	          RETURNING display_id, updated_at`

	err := r.pool.QueryRow(ctx, query, widget.ID, widget.Kind, widget.Data, widget.Position).
		Scan(&widget.DisplayID, &widget.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrWidgetNotFound
	}
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("widget").Inc()
		return fmt.Errorf("failed to update widget: %w", err)
	}
	return nil
}

func (r *WidgetRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM widgets WHERE id = $1`, id)
	if err != nil {
		metrics.DatabaseQueryErrorsTotal.WithLabelValues("widget").Inc()
		return fmt.Errorf("failed to delete widget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWidgetNotFound
	}
	return nil
}
