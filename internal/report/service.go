package report

import (
	"context"
	"log/slog"
	"time"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/dberr"
	"github.com/frahmantamala/expense-tracker/internal/core/money"
	"github.com/frahmantamala/expense-tracker/internal/core/period"
)

type RepositoryAPI interface {
	// CategoryTotals returns one row per category, including categories with
	// no expenses in [start, end], ordered by name.
	CategoryTotals(ctx context.Context, start, end time.Time) ([]CategoryRow, error)
}

type Service struct {
	repo         RepositoryAPI
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(repo RepositoryAPI, logger *slog.Logger, queryTimeout time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, queryTimeout: queryTimeout}
}

func (s *Service) MonthlySummary(ctx context.Context, m period.Month) (*MonthlySummary, error) {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start, end := m.Range()
	rows, err := s.repo.CategoryTotals(ctx, start, end)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to aggregate expenses", err, "month", m.String())
		return nil, appErrors.NewStorageError("failed to build monthly summary", err)
	}

	summary := &MonthlySummary{
		Year:       m.Year,
		Month:      int(m.Month),
		Categories: make([]CategoryTotal, 0, len(rows)),
	}

	var totalCents int64
	for _, row := range rows {
		totalCents += row.TotalCents
		summary.Count += row.ExpenseCount
		summary.Categories = append(summary.Categories, CategoryTotal{
			CategoryID: row.CategoryID,
			Name:       row.Name,
			Total:      money.AmountFromCents(row.TotalCents),
			Count:      row.ExpenseCount,
		})
	}
	summary.Total = money.AmountFromCents(totalCents)

	return summary, nil
}
