// Package report aggregates expenses into per-month summaries.
package report

import (
	"github.com/frahmantamala/expense-tracker/internal/core/money"
)

type CategoryTotal struct {
	CategoryID int64        `json:"categoryId"`
	Name       string       `json:"name"`
	Total      money.Amount `json:"total"`
	Count      int64        `json:"count"`
}

type MonthlySummary struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Total      money.Amount    `json:"total"`
	Count      int64           `json:"count"`
	Categories []CategoryTotal `json:"categories"`
}

// CategoryRow is one aggregated row as read from storage.
type CategoryRow struct {
	CategoryID   int64  `db:"id"`
	Name         string `db:"name"`
	TotalCents   int64  `db:"total_cents"`
	ExpenseCount int64  `db:"expense_count"`
}
