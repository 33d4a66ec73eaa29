package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/expense-tracker/internal/report"
)

const categoryTotalsQuery = `
SELECT c.id,
       c.name,
       CAST(COALESCE(SUM(e.amount_cents), 0) AS BIGINT) AS total_cents,
       COUNT(e.id) AS expense_count
FROM categories c
LEFT JOIN expenses e
       ON e.category_id = c.id
      AND e.date >= ?
      AND e.date <= ?
GROUP BY c.id, c.name
ORDER BY c.name`

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CategoryTotals(ctx context.Context, start, end time.Time) ([]report.CategoryRow, error) {
	rows := make([]report.CategoryRow, 0)
	query := r.db.Rebind(categoryTotalsQuery)
	if err := r.db.SelectContext(ctx, &rows, query, start.UTC(), end.UTC()); err != nil {
		return nil, err
	}
	return rows, nil
}
